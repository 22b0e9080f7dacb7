package frontend

import (
	"os"
	"path/filepath"
	"strings"
)

// Registry answers whether the plugin for a front-end is applied to the project.
type Registry interface {
	IsPluginActive(kind Kind) bool
}

// Static is a Registry backed by an explicit map. Missing kinds are inactive.
type Static map[Kind]bool

// IsPluginActive implements Registry.
func (s Static) IsPluginActive(kind Kind) bool {
	return s[kind]
}

// Marker defines a file or directory pattern and the front-end it indicates.
type Marker struct {
	Pattern string
	Kind    Kind
}

// markers defines the detection patterns per kind.
// Within a kind, first match wins.
var markers = []Marker{
	{"src/main/java", Primary},
	{"src/test/java", Primary},
	{"*.java", Primary},
	{"src/main/kotlin", Secondary},
	{"src/test/kotlin", Secondary},
	{"src/main/groovy", Secondary},
	{"src/jmh", Benchmark},
}

// Markers returns the detection patterns.
func Markers() []Marker {
	return markers
}

// Detector is a Registry that looks for marker files under a project root.
type Detector struct {
	Root string
}

// IsPluginActive implements Registry.
func (d Detector) IsPluginActive(kind Kind) bool {
	for _, marker := range markers {
		if marker.Kind != kind {
			continue
		}
		if strings.Contains(marker.Pattern, "*") {
			matches, err := filepath.Glob(filepath.Join(d.Root, marker.Pattern))
			if err == nil && len(matches) > 0 {
				return true
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(d.Root, filepath.FromSlash(marker.Pattern))); err == nil {
			return true
		}
	}
	return false
}
