package config

import (
	"fmt"
	"regexp"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// Validation patterns.
var (
	// Project name: must start with lowercase letter, may contain lowercase, digits, hyphens.
	// Hyphens must not be consecutive or trailing.
	projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

	// Task name: a letter followed by letters, digits, hyphens or underscores.
	taskNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateProject(cfg); err != nil {
		return nil, err
	}

	warnings = append(warnings, toolchainWarnings(cfg)...)

	if err := validateBinding(cfg); err != nil {
		return warnings, err
	}

	if err := validateInstallations(cfg); err != nil {
		return warnings, err
	}

	if err := validateTasks(cfg); err != nil {
		return warnings, err
	}

	return warnings, nil
}

func validateProject(cfg *Config) error {
	return ValidateProjectName(cfg.Project.Name)
}

// toolchainWarnings flags versions that will not match any installation. They
// are not errors: the toolchain provider rejects them when a task runs.
func toolchainWarnings(cfg *Config) []string {
	if cfg.Toolchains == nil {
		return nil
	}
	var warnings []string
	fields := []struct{ name, value string }{
		{"toolchains.main", cfg.Toolchains.Main},
		{"toolchains.test", cfg.Toolchains.Test},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := version.Validate(f.value); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", f.name, err))
		}
	}
	return warnings
}

func validateBinding(cfg *Config) error {
	if cfg.Binding == nil {
		return nil
	}
	switch cfg.Binding.Classifier {
	case "", "name", "category":
	default:
		return &ValidationError{
			Field:   "binding.classifier",
			Message: `must be "name" or "category"`,
		}
	}
	for i, v := range cfg.Binding.ExperimentalVersions {
		if v <= 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("binding.experimentalVersions[%d]", i),
				Message: "must be a positive language version",
			}
		}
	}
	return nil
}

func validateInstallations(cfg *Config) error {
	if cfg.Installations == nil {
		return nil
	}
	if cfg.Installations.CacheSize < 0 {
		return &ValidationError{Field: "installations.cacheSize", Message: "must not be negative"}
	}
	for i, p := range cfg.Installations.Paths {
		if p == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("installations.paths[%d]", i),
				Message: "must not be empty",
			}
		}
	}
	return nil
}

func validateTasks(cfg *Config) error {
	names := make(map[string]bool, len(cfg.Tasks))
	for i, task := range cfg.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if err := ValidateTaskName(task.Name); err != nil {
			return &ValidationError{Field: field + ".name", Message: err.(*ValidationError).Message}
		}
		if names[task.Name] {
			return &ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate task %q", task.Name)}
		}
		names[task.Name] = true

		if _, err := frontend.ParseKind(task.Kind); err != nil {
			return &ValidationError{Field: field + ".kind", Message: `must be "primary", "secondary" or "benchmark"`}
		}
		switch task.Action {
		case "", "compile", "execute", "other":
		default:
			return &ValidationError{Field: field + ".action", Message: `must be "compile", "execute" or "other"`}
		}
		switch task.Category {
		case "", "main", "test":
		default:
			return &ValidationError{Field: field + ".category", Message: `must be "main" or "test"`}
		}
	}

	for i, task := range cfg.Tasks {
		for _, dep := range task.DependsOn {
			field := fmt.Sprintf("tasks[%d].dependsOn", i)
			if dep == task.Name {
				return &ValidationError{Field: field, Message: fmt.Sprintf("task %q depends on itself", task.Name)}
			}
			if !names[dep] {
				return &ValidationError{Field: field, Message: fmt.Sprintf("undefined task %q", dep)}
			}
		}
	}
	return nil
}

// ValidateProjectName checks if a project name is valid.
// Returns a ValidationError if the name is empty, too long (>128 chars),
// or doesn't match the required pattern.
func ValidateProjectName(name string) error {
	if name == "" {
		return &ValidationError{Field: "project.name", Message: "is required"}
	}
	if len(name) > 128 {
		return &ValidationError{Field: "project.name", Message: "must be 128 characters or less"}
	}
	if !projectNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   "project.name",
			Message: "must match pattern ^[a-z][a-z0-9]*(-[a-z0-9]+)*$ (lowercase letters, digits, non-consecutive hyphens)",
		}
	}
	return nil
}

// ValidateTaskName checks if a task name is valid.
func ValidateTaskName(name string) error {
	if name == "" {
		return &ValidationError{Field: "task name", Message: "is required"}
	}
	if !taskNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   "task name",
			Message: "must match pattern ^[A-Za-z][A-Za-z0-9_-]*$",
		}
	}
	return nil
}
