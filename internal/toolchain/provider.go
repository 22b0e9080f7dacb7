package toolchain

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/logging"
	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// Provider hands out deferred compiler and launcher handles for a spec.
// Nothing is located until the returned Lazy is realized; a failure to locate
// a matching installation is returned from Get.
type Provider interface {
	CompilerFor(spec Spec) *Lazy[Handle]
	LauncherFor(spec Spec) *Lazy[Handle]
}

// Tool names inside an installation's bin directory.
const (
	CompilerTool = "javac"
	LauncherTool = "java"
)

// DefaultCacheSize bounds the number of memoized (version, vendor) lookups.
const DefaultCacheSize = 64

// ProviderOptions configures a LocalProvider.
type ProviderOptions struct {
	// Roots are the discovery roots. Nil means DefaultRoots().
	Roots []string
	// Declared are installations from a manifest; they take precedence over
	// discovered ones at the same path.
	Declared  []Installation
	CacheSize int
	Logger    *slog.Logger
}

type lookupKey struct {
	version string
	vendor  string
}

// LocalProvider locates toolchains already installed on this machine.
// It never downloads or installs anything.
type LocalProvider struct {
	roots    []string
	declared []Installation
	logger   *slog.Logger
	cache    *lru.Cache[lookupKey, Installation]

	discoverOnce  sync.Once
	installations []Installation
}

// NewLocalProvider creates a provider. Discovery is deferred until the first lookup.
func NewLocalProvider(opts ProviderOptions) (*LocalProvider, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[lookupKey, Installation](size)
	if err != nil {
		return nil, err
	}

	roots := opts.Roots
	if roots == nil {
		roots = DefaultRoots()
	}

	return &LocalProvider{
		roots:    roots,
		declared: opts.Declared,
		logger:   logging.OrDiscard(opts.Logger),
		cache:    cache,
	}, nil
}

// Installations returns every known installation, best match first.
func (p *LocalProvider) Installations() []Installation {
	p.discoverOnce.Do(func() {
		discovered := Discover(p.roots)
		p.installations = MergeInstallations(discovered, p.declared)
		p.logger.Debug("toolchain discovery finished",
			"roots", len(p.roots),
			"installations", len(p.installations))
	})
	return p.installations
}

// Locate returns the best installation for v and vendor.
func (p *LocalProvider) Locate(v version.Language, vendor string) (Installation, error) {
	if !v.Known() {
		return Installation{}, errors.Toolchainf("invalid toolchain version %q", v.Raw())
	}

	key := lookupKey{version: v.String(), vendor: vendor}
	if inst, ok := p.cache.Get(key); ok {
		return inst, nil
	}

	for _, inst := range p.Installations() {
		if inst.Matches(v, vendor) {
			p.cache.Add(key, inst)
			p.logger.Debug("toolchain located",
				"version", v.String(),
				"vendor", inst.Vendor,
				"path", inst.Path)
			return inst, nil
		}
	}

	if vendor != "" {
		return Installation{}, errors.Toolchainf("no installed toolchain matches version %s from vendor %q", v, vendor)
	}
	return Installation{}, errors.Toolchainf("no installed toolchain matches version %s", v)
}

// CompilerFor implements Provider.
func (p *LocalProvider) CompilerFor(spec Spec) *Lazy[Handle] {
	return p.handleFor(spec, CompilerTool)
}

// LauncherFor implements Provider.
func (p *LocalProvider) LauncherFor(spec Spec) *Lazy[Handle] {
	return p.handleFor(spec, LauncherTool)
}

func (p *LocalProvider) handleFor(spec Spec, tool string) *Lazy[Handle] {
	return NewLazy(func() (Handle, error) {
		inst, err := p.Locate(spec.Version, spec.Vendor)
		if err != nil {
			return Handle{}, err
		}
		return Handle{
			Vendor:           inst.Vendor,
			Version:          version.Of(inst.Language.Number()),
			FullVersion:      inst.Version,
			InstallationPath: inst.Path,
			Executable:       inst.Executable(tool),
		}, nil
	})
}
