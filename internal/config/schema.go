// Package config provides configuration loading and validation for config.json.
package config

import (
	"strings"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/property"
)

// Config represents the complete config.json configuration.
type Config struct {
	Project       ProjectConfig        `json:"project"`
	Toolchains    *ToolchainsConfig    `json:"toolchains,omitempty"`
	Frontends     *FrontendsConfig     `json:"frontends,omitempty"`
	Binding       *BindingConfig       `json:"binding,omitempty"`
	Installations *InstallationsConfig `json:"installations,omitempty"`
	Report        *ReportConfig        `json:"report,omitempty"`
	Tasks         []TaskConfig         `json:"tasks,omitempty"`
}

// ProjectConfig contains project metadata.
type ProjectConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToolchainsConfig holds the lowest-precedence toolchain overrides.
type ToolchainsConfig struct {
	Main   string `json:"main,omitempty"`
	Test   string `json:"test,omitempty"`
	Vendor string `json:"vendor,omitempty"`
}

// FrontendsConfig forces front-ends on or off. A nil field means detect.
type FrontendsConfig struct {
	Primary   *bool `json:"primary,omitempty"`
	Secondary *bool `json:"secondary,omitempty"`
	Benchmark *bool `json:"benchmark,omitempty"`
}

// BindingConfig tunes the binding policy.
type BindingConfig struct {
	Classifier           string `json:"classifier,omitempty"`
	ExperimentalVersions []int  `json:"experimentalVersions,omitempty"`
}

// InstallationsConfig lists additional toolchain discovery roots.
type InstallationsConfig struct {
	Paths     []string `json:"paths,omitempty"`
	CacheSize int      `json:"cacheSize,omitempty"`
}

// ReportConfig configures the report file. An empty File disables it.
type ReportConfig struct {
	File string `json:"file,omitempty"`
}

// TaskConfig declares a build task.
type TaskConfig struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Action    string   `json:"action,omitempty"`
	Category  string   `json:"category,omitempty"`
	DependsOn []string `json:"dependsOn,omitempty"`
}

// Properties exposes the toolchains block as a property source.
func (c *Config) Properties() property.Map {
	m := property.Map{}
	if c == nil || c.Toolchains == nil {
		return m
	}
	set := func(name, value string) {
		if strings.TrimSpace(value) != "" {
			m[name] = value
		}
	}
	set(property.MainToolchain, c.Toolchains.Main)
	set(property.TestToolchain, c.Toolchains.Test)
	set(property.ToolchainVendor, c.Toolchains.Vendor)
	return m
}

// Forced returns the front-ends the configuration turns on or off explicitly.
func (f *FrontendsConfig) Forced() map[frontend.Kind]bool {
	forced := make(map[frontend.Kind]bool)
	if f == nil {
		return forced
	}
	for kind, value := range map[frontend.Kind]*bool{
		frontend.Primary:   f.Primary,
		frontend.Secondary: f.Secondary,
		frontend.Benchmark: f.Benchmark,
	} {
		if value != nil {
			forced[kind] = *value
		}
	}
	return forced
}
