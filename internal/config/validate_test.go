package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default("demo")
	cfg.Tasks = []TaskConfig{
		{Name: "compileJava", Kind: "primary", Action: "compile", Category: "main"},
		{Name: "test", Kind: "primary", Action: "execute", Category: "test", DependsOn: []string{"compileJava"}},
	}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing project name", func(c *Config) { c.Project.Name = "" }, "project.name"},
		{"uppercase project name", func(c *Config) { c.Project.Name = "Demo" }, "project.name"},
		{"long project name", func(c *Config) { c.Project.Name = "a" + strings.Repeat("b", 128) }, "project.name"},
		{"unknown classifier", func(c *Config) { c.Binding.Classifier = "regex" }, "binding.classifier"},
		{"zero experimental version", func(c *Config) { c.Binding.ExperimentalVersions = []int{20, 0} }, "binding.experimentalVersions[1]"},
		{"negative cache size", func(c *Config) { c.Installations.CacheSize = -1 }, "installations.cacheSize"},
		{"empty installation path", func(c *Config) { c.Installations.Paths = []string{""} }, "installations.paths[0]"},
		{"bad task name", func(c *Config) { c.Tasks[0].Name = "1compile" }, "tasks[0].name"},
		{"duplicate task", func(c *Config) { c.Tasks[1].Name = "compileJava"; c.Tasks[1].DependsOn = nil }, "tasks[1].name"},
		{"unknown kind", func(c *Config) { c.Tasks[0].Kind = "scala" }, "tasks[0].kind"},
		{"unknown action", func(c *Config) { c.Tasks[0].Action = "link" }, "tasks[0].action"},
		{"unknown category", func(c *Config) { c.Tasks[0].Category = "bench" }, "tasks[0].category"},
		{"undefined dependency", func(c *Config) { c.Tasks[1].DependsOn = []string{"ghost"} }, "tasks[1].dependsOn"},
		{"self dependency", func(c *Config) { c.Tasks[0].DependsOn = []string{"compileJava"} }, "tasks[0].dependsOn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			_, err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v (%T), want *ValidationError", err, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_ToolchainWarnings(t *testing.T) {
	cfg := validConfig()
	cfg.Toolchains = &ToolchainsConfig{Main: "17", Test: "latest"}

	warnings, err := Validate(cfg)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "toolchains.test:") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestValidateTaskName(t *testing.T) {
	for _, name := range []string{"compileJava", "jmh", "integration-test", "compile_Test2"} {
		if err := ValidateTaskName(name); err != nil {
			t.Errorf("ValidateTaskName(%q) error = %v", name, err)
		}
	}
	for _, name := range []string{"", "1task", "-x", "a b", "a.b"} {
		if err := ValidateTaskName(name); err == nil {
			t.Errorf("ValidateTaskName(%q) expected error", name)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "tasks[0].kind", Message: "is required"}
	if err.Error() != "tasks[0].kind: is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
