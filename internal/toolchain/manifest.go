package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// ManifestFileName is the installation manifest inside the project config directory.
const ManifestFileName = "toolchains.toml"

// Manifest lists installations the project declares explicitly, in addition to
// the ones found by discovery.
//
//	[[installation]]
//	vendor = "Eclipse Adoptium"
//	version = "21.0.2"
//	path = "/opt/jdk-21"
type Manifest struct {
	Installations []ManifestEntry `toml:"installation"`
}

// ManifestEntry is a single declared installation.
// When Version is empty it is read from the installation's release file.
type ManifestEntry struct {
	Vendor  string `toml:"vendor,omitempty"`
	Version string `toml:"version,omitempty"`
	Path    string `toml:"path"`
}

// LoadManifest reads a manifest file. A missing file yields an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// Resolve turns manifest entries into installations. Relative paths are resolved
// against baseDir.
func (m *Manifest) Resolve(baseDir string) ([]Installation, error) {
	if m == nil {
		return nil, nil
	}

	result := make([]Installation, 0, len(m.Installations))
	for i, entry := range m.Installations {
		if entry.Path == "" {
			return nil, fmt.Errorf("installation[%d]: path is required", i)
		}
		path := entry.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		inst := Installation{
			Vendor:  entry.Vendor,
			Version: entry.Version,
			Path:    path,
			Source:  "manifest",
		}
		if inst.Version == "" {
			released, err := ReadRelease(path)
			if err != nil {
				return nil, fmt.Errorf("installation[%d]: %w", i, err)
			}
			inst.Version = released.Version
			if inst.Vendor == "" {
				inst.Vendor = released.Vendor
			}
		}
		if inst.Vendor == "" {
			inst.Vendor = "Unknown"
		}
		inst.Language = version.Parse(inst.Version)
		result = append(result, inst)
	}
	return result, nil
}

// MergeInstallations combines discovered installations with declared ones.
// A declared installation replaces a discovered one at the same path.
func MergeInstallations(discovered, declared []Installation) []Installation {
	byPath := make(map[string]int, len(discovered)+len(declared))
	result := make([]Installation, 0, len(discovered)+len(declared))

	for _, inst := range discovered {
		byPath[filepath.Clean(inst.Path)] = len(result)
		result = append(result, inst)
	}
	for _, inst := range declared {
		key := filepath.Clean(inst.Path)
		if idx, exists := byPath[key]; exists {
			result[idx] = inst
			continue
		}
		byPath[key] = len(result)
		result = append(result, inst)
	}

	sortInstallations(result)
	return result
}
