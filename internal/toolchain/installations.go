package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// ReleaseFile is the metadata file at the root of every runtime installation.
const ReleaseFile = "release"

// InstallationsEnvVar holds additional discovery roots as a path list.
const InstallationsEnvVar = "TOOLPIN_INSTALLATIONS"

// Installation is a toolchain present on this machine.
type Installation struct {
	Vendor   string
	Version  string // Full runtime version, e.g. "17.0.2"
	Language version.Language
	Path     string
	Source   string // "discovered" or "manifest"
}

// defaultRoots are the well-known installation locations, in search order.
// Patterns containing "*" match installation directories directly.
var defaultRoots = []string{
	"~/.jdks",
	"~/.sdkman/candidates/java",
	"~/.gradle/jdks",
	"/usr/lib/jvm",
	"/Library/Java/JavaVirtualMachines/*/Contents/Home",
}

// DefaultRoots returns the entries of $TOOLPIN_INSTALLATIONS followed by the
// well-known roots with "~" expanded.
func DefaultRoots() []string {
	home, _ := os.UserHomeDir()

	roots := make([]string, 0, len(defaultRoots))
	if env := os.Getenv(InstallationsEnvVar); env != "" {
		roots = append(roots, filepath.SplitList(env)...)
	}
	for _, root := range defaultRoots {
		if strings.HasPrefix(root, "~/") {
			if home == "" {
				continue
			}
			root = filepath.Join(home, root[2:])
		}
		roots = append(roots, root)
	}
	return roots
}

// Discover scans roots for installations. A root is either an installation itself
// (it holds a release file), a directory of installations, or a glob of installations.
// Missing or unreadable roots are skipped.
func Discover(roots []string) []Installation {
	var found []Installation
	seen := make(map[string]bool)

	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil || seen[abs] {
			return
		}
		inst, err := ReadRelease(abs)
		if err != nil {
			return
		}
		seen[abs] = true
		found = append(found, inst)
	}

	for _, root := range roots {
		if strings.Contains(root, "*") {
			matches, err := filepath.Glob(root)
			if err != nil {
				continue
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		if hasReleaseFile(root) {
			add(root)
			continue
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			if hasReleaseFile(dir) {
				add(dir)
				continue
			}
			// macOS bundle layout
			if home := filepath.Join(dir, "Contents", "Home"); hasReleaseFile(home) {
				add(home)
			}
		}
	}

	sortInstallations(found)
	return found
}

func hasReleaseFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ReleaseFile))
	return err == nil && !info.IsDir()
}

// ReadRelease reads the release file of the installation at dir.
func ReadRelease(dir string) (Installation, error) {
	values, err := godotenv.Read(filepath.Join(dir, ReleaseFile))
	if err != nil {
		return Installation{}, fmt.Errorf("read release file in %s: %w", dir, err)
	}

	full := values["JAVA_VERSION"]
	if full == "" {
		full = values["JAVA_RUNTIME_VERSION"]
	}
	if full == "" {
		return Installation{}, fmt.Errorf("release file in %s has no JAVA_VERSION", dir)
	}

	vendor := values["IMPLEMENTOR"]
	if vendor == "" {
		vendor = values["JAVA_VENDOR"]
	}
	if vendor == "" {
		vendor = "Unknown"
	}

	return Installation{
		Vendor:   vendor,
		Version:  full,
		Language: version.Parse(full),
		Path:     dir,
		Source:   "discovered",
	}, nil
}

// Matches reports whether the installation satisfies v and the vendor constraint.
// The vendor constraint is a case-insensitive substring of the installation vendor.
func (i Installation) Matches(v version.Language, vendor string) bool {
	if !v.Known() || !i.Language.Known() || i.Language.Number() != v.Number() {
		return false
	}
	if vendor == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Vendor), strings.ToLower(vendor))
}

// Executable returns the path of a tool in the installation's bin directory.
func (i Installation) Executable(tool string) string {
	if runtime.GOOS == "windows" {
		tool += ".exe"
	}
	return filepath.Join(i.Path, "bin", tool)
}

// sortInstallations orders by language version descending, then full version
// descending, then path.
func sortInstallations(list []Installation) {
	sort.SliceStable(list, func(a, b int) bool {
		if c := version.Compare(list[a].Language, list[b].Language); c != 0 {
			return c > 0
		}
		if c := version.CompareFull(list[a].Version, list[b].Version); c != 0 {
			return c > 0
		}
		return list[a].Path < list[b].Path
	})
}
