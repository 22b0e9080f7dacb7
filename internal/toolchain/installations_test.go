package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// writeInstallation creates dir with a release file for vendor and fullVersion.
func writeInstallation(t *testing.T, dir, vendor, fullVersion string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("IMPLEMENTOR=%q\nJAVA_VERSION=%q\n", vendor, fullVersion)
	if err := os.WriteFile(filepath.Join(dir, ReleaseFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestReadRelease(t *testing.T) {
	dir := writeInstallation(t, t.TempDir(), "Eclipse Adoptium", "17.0.2")

	inst, err := ReadRelease(dir)
	if err != nil {
		t.Fatalf("ReadRelease() error = %v", err)
	}
	if inst.Vendor != "Eclipse Adoptium" {
		t.Errorf("Vendor = %q, want %q", inst.Vendor, "Eclipse Adoptium")
	}
	if inst.Version != "17.0.2" {
		t.Errorf("Version = %q, want %q", inst.Version, "17.0.2")
	}
	if inst.Language.Number() != 17 {
		t.Errorf("Language = %v, want 17", inst.Language)
	}
	if inst.Source != "discovered" {
		t.Errorf("Source = %q, want discovered", inst.Source)
	}
}

func TestReadRelease_LegacyVersionAndMissingVendor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ReleaseFile), []byte("JAVA_VERSION=\"1.8.0_292\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	inst, err := ReadRelease(dir)
	if err != nil {
		t.Fatalf("ReadRelease() error = %v", err)
	}
	if inst.Language.Number() != 8 {
		t.Errorf("Language = %v, want 8", inst.Language)
	}
	if inst.Vendor != "Unknown" {
		t.Errorf("Vendor = %q, want Unknown", inst.Vendor)
	}
}

func TestReadRelease_Errors(t *testing.T) {
	if _, err := ReadRelease(t.TempDir()); err == nil {
		t.Error("ReadRelease() on directory without release file: expected error")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ReleaseFile), []byte("IMPLEMENTOR=\"X\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRelease(dir); err == nil {
		t.Error("ReadRelease() without JAVA_VERSION: expected error")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeInstallation(t, filepath.Join(root, "temurin-17"), "Eclipse Adoptium", "17.0.2")
	writeInstallation(t, filepath.Join(root, "temurin-17-newer"), "Eclipse Adoptium", "17.0.10")
	writeInstallation(t, filepath.Join(root, "zulu-21"), "Azul Systems, Inc.", "21.0.1")
	writeInstallation(t, filepath.Join(root, "mac", "Contents", "Home"), "Oracle Corporation", "22")
	if err := os.MkdirAll(filepath.Join(root, "not-a-jdk"), 0755); err != nil {
		t.Fatal(err)
	}

	single := writeInstallation(t, filepath.Join(t.TempDir(), "jdk-11"), "Amazon.com Inc.", "11.0.20")

	found := Discover([]string{root, single, filepath.Join(t.TempDir(), "missing")})

	if len(found) != 5 {
		t.Fatalf("Discover() found %d installations, want 5: %+v", len(found), found)
	}

	wantOrder := []string{"22", "21.0.1", "17.0.10", "17.0.2", "11.0.20"}
	for i, want := range wantOrder {
		if found[i].Version != want {
			t.Errorf("found[%d].Version = %q, want %q", i, found[i].Version, want)
		}
	}
}

func TestDiscover_Glob(t *testing.T) {
	root := t.TempDir()
	writeInstallation(t, filepath.Join(root, "a", "Contents", "Home"), "Vendor A", "17")
	writeInstallation(t, filepath.Join(root, "b", "Contents", "Home"), "Vendor B", "21")

	found := Discover([]string{filepath.Join(root, "*", "Contents", "Home")})
	if len(found) != 2 {
		t.Fatalf("Discover(glob) found %d, want 2", len(found))
	}
}

func TestDiscover_Deduplicates(t *testing.T) {
	root := t.TempDir()
	writeInstallation(t, filepath.Join(root, "jdk"), "V", "17")

	found := Discover([]string{root, root})
	if len(found) != 1 {
		t.Errorf("Discover() found %d, want 1", len(found))
	}
}

func TestInstallation_Matches(t *testing.T) {
	inst := Installation{Vendor: "Eclipse Adoptium", Language: version.Of(17)}

	tests := []struct {
		name   string
		v      version.Language
		vendor string
		want   bool
	}{
		{"same version any vendor", version.Of(17), "", true},
		{"vendor substring", version.Of(17), "adoptium", true},
		{"vendor mismatch", version.Of(17), "azul", false},
		{"version mismatch", version.Of(21), "", false},
		{"unknown version", version.Parse("banana"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inst.Matches(tt.v, tt.vendor); got != tt.want {
				t.Errorf("Matches(%v, %q) = %v, want %v", tt.v, tt.vendor, got, tt.want)
			}
		})
	}
}

func TestDefaultRoots_Order(t *testing.T) {
	home := t.TempDir()
	a, b := t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(InstallationsEnvVar, a+string(os.PathListSeparator)+b)

	want := []string{
		a,
		b,
		filepath.Join(home, ".jdks"),
		filepath.Join(home, ".sdkman", "candidates", "java"),
		filepath.Join(home, ".gradle", "jdks"),
		"/usr/lib/jvm",
		"/Library/Java/JavaVirtualMachines/*/Contents/Home",
	}
	got := DefaultRoots()
	if !slices.Equal(got, want) {
		t.Errorf("DefaultRoots() = %v, want %v", got, want)
	}
}

func TestDefaultRoots_WithoutEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(InstallationsEnvVar, "")

	roots := DefaultRoots()
	if len(roots) != len(defaultRoots) {
		t.Errorf("DefaultRoots() = %v, want the %d well-known roots", roots, len(defaultRoots))
	}
}
