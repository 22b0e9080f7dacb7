package project

import (
	"path/filepath"

	"github.com/AndreyAkinshin/toolpin/internal/config"
	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/property"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// Property layer names, highest precedence first.
const (
	LayerCommandLine = "command line"
	LayerEnvironment = "environment"
	LayerFile        = property.FileName
	LayerConfig      = ConfigFileName
)

// Options controls how a project is loaded.
type Options struct {
	// Properties are command line assignments; they win over every other source.
	Properties property.Map
	// Env overrides the environment source. Nil reads the process environment.
	Env property.Source
}

// Project represents a loaded toolpin project.
type Project struct {
	Root       string
	Config     *config.Config
	Properties property.Chain
	Manifest   *toolchain.Manifest
	Warnings   []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject(opts Options) (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to find project")
	}
	return LoadProjectFrom(root, opts)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string, opts Options) (*Project, error) {
	configPath := filepath.Join(root, ConfigDirName, ConfigFileName)

	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to load configuration")
	}

	fileProps, err := property.LoadFile(filepath.Join(root, property.FileName))
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to load properties")
	}

	manifest, err := toolchain.LoadManifest(filepath.Join(root, ConfigDirName, toolchain.ManifestFileName))
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to load installation manifest")
	}

	env := opts.Env
	if env == nil {
		env = property.NewEnv(property.DefaultEnvPrefix)
	}

	return &Project{
		Root:   root,
		Config: cfg,
		Properties: property.Chain{
			{Name: LayerCommandLine, Source: opts.Properties},
			{Name: LayerEnvironment, Source: env},
			{Name: LayerFile, Source: fileProps},
			{Name: LayerConfig, Source: cfg.Properties()},
		},
		Manifest: manifest,
		Warnings: warnings,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigDirName, ConfigFileName)
}

// ManifestPath returns the full path to the installation manifest.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.Root, ConfigDirName, toolchain.ManifestFileName)
}

// Registry returns the front-end registry: marker detection with the
// configuration's forced answers applied by the gate.
func (p *Project) Registry() frontend.Registry {
	return frontend.Detector{Root: p.Root}
}

// ForcedFrontends returns the front-ends the configuration turns on or off.
func (p *Project) ForcedFrontends() map[frontend.Kind]bool {
	return p.Config.Frontends.Forced()
}

// Gate returns the activation gate for the project's front-ends.
func (p *Project) Gate() *frontend.Gate {
	return frontend.NewGate(p.Registry(), p.ForcedFrontends())
}

// Roots returns the toolchain discovery roots: configured paths, resolved against
// the project root, followed by the default roots.
func (p *Project) Roots() []string {
	var roots []string
	if p.Config.Installations != nil {
		for _, path := range p.Config.Installations.Paths {
			roots = append(roots, p.resolve(path))
		}
	}
	return append(roots, toolchain.DefaultRoots()...)
}

// DeclaredInstallations resolves the manifest entries. Relative paths are taken
// from the configuration directory.
func (p *Project) DeclaredInstallations() ([]toolchain.Installation, error) {
	installations, err := p.Manifest.Resolve(filepath.Join(p.Root, ConfigDirName))
	if err != nil {
		return nil, errors.WrapConfig(err, "invalid installation manifest")
	}
	return installations, nil
}

// ReportPath returns the absolute report file path, or "" when the report file
// is disabled.
func (p *Project) ReportPath() string {
	if p.Config.Report == nil || p.Config.Report.File == "" {
		return ""
	}
	return p.resolve(p.Config.Report.File)
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}
