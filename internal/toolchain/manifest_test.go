package toolchain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	content := `
[[installation]]
vendor = "Eclipse Adoptium"
version = "21.0.2"
path = "/opt/jdk-21"

[[installation]]
path = "jdks/local"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Installations) != 2 {
		t.Fatalf("len(Installations) = %d, want 2", len(m.Installations))
	}
	if m.Installations[0].Vendor != "Eclipse Adoptium" || m.Installations[0].Version != "21.0.2" {
		t.Errorf("Installations[0] = %+v", m.Installations[0])
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v, want nil", err)
	}
	if len(m.Installations) != 0 {
		t.Errorf("Installations = %v, want empty", m.Installations)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	if err := os.WriteFile(path, []byte("[[installation]\nbroken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Error("LoadManifest() expected error for invalid TOML")
	}
}

func TestManifest_Resolve(t *testing.T) {
	base := t.TempDir()
	writeInstallation(t, filepath.Join(base, "jdks", "local"), "Azul Systems, Inc.", "11.0.20")

	m := &Manifest{Installations: []ManifestEntry{
		{Vendor: "Eclipse Adoptium", Version: "21.0.2", Path: "/opt/jdk-21"},
		{Path: "jdks/local"},
	}}

	got, err := m.Resolve(base)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got[0].Language.Number() != 21 || got[0].Source != "manifest" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Vendor != "Azul Systems, Inc." || got[1].Language.Number() != 11 {
		t.Errorf("got[1] = %+v, want values read from release file", got[1])
	}
	if got[1].Path != filepath.Join(base, "jdks", "local") {
		t.Errorf("got[1].Path = %q, want resolved against base", got[1].Path)
	}
}

func TestManifest_ResolveRequiresPath(t *testing.T) {
	m := &Manifest{Installations: []ManifestEntry{{Version: "17"}}}
	if _, err := m.Resolve(t.TempDir()); err == nil {
		t.Error("Resolve() expected error for entry without path")
	}
}

func TestMergeInstallations(t *testing.T) {
	discovered := []Installation{
		{Vendor: "Discovered", Version: "17.0.2", Path: "/jdks/17"},
		{Vendor: "Discovered", Version: "11.0.1", Path: "/jdks/11"},
	}
	declared := []Installation{
		{Vendor: "Declared", Version: "17.0.2", Path: "/jdks/17/"},
		{Vendor: "Declared", Version: "21", Path: "/opt/21"},
	}
	for i := range discovered {
		discovered[i].Language = parseLang(discovered[i].Version)
	}
	for i := range declared {
		declared[i].Language = parseLang(declared[i].Version)
	}

	merged := MergeInstallations(discovered, declared)
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	if merged[0].Path != "/opt/21" {
		t.Errorf("merged[0] = %+v, want newest first", merged[0])
	}
	if merged[1].Vendor != "Declared" {
		t.Errorf("merged[1].Vendor = %q, want declared entry to replace discovered one", merged[1].Vendor)
	}
}
