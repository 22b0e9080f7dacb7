package config

// Default configuration values.
const (
	DefaultClassifier = "name"
	DefaultCacheSize  = 64
)

// DefaultExperimentalVersions are the test versions launched with experimental
// bytecode support unless the configuration lists its own.
var DefaultExperimentalVersions = []int{20}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyBindingDefaults(cfg)
	applyInstallationDefaults(cfg)
	applyTaskDefaults(cfg)
}

func applyBindingDefaults(cfg *Config) {
	if cfg.Binding == nil {
		cfg.Binding = &BindingConfig{}
	}
	if cfg.Binding.Classifier == "" {
		cfg.Binding.Classifier = DefaultClassifier
	}
	// An explicit empty list disables the experimental property.
	if cfg.Binding.ExperimentalVersions == nil {
		cfg.Binding.ExperimentalVersions = append([]int(nil), DefaultExperimentalVersions...)
	}
}

func applyInstallationDefaults(cfg *Config) {
	if cfg.Installations == nil {
		cfg.Installations = &InstallationsConfig{}
	}
	if cfg.Installations.CacheSize == 0 {
		cfg.Installations.CacheSize = DefaultCacheSize
	}
}

func applyTaskDefaults(cfg *Config) {
	for i := range cfg.Tasks {
		if cfg.Tasks[i].Action == "" {
			cfg.Tasks[i].Action = "other"
		}
	}
}
