// Package frontend models the optional compiler front-ends of a project and decides,
// once per project, which of them are active.
package frontend

import (
	"fmt"
	"strings"
)

// Kind identifies a compiler front-end.
type Kind int

const (
	// Primary is the main language compiler.
	Primary Kind = iota
	// Secondary is an optional alternative compiler targeting the same bytecode.
	Secondary
	// Benchmark is the optional benchmark harness source set.
	Benchmark
)

// Kinds lists every front-end kind.
var Kinds = []Kind{Primary, Secondary, Benchmark}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Benchmark:
		return "benchmark"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a configuration name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary":
		return Primary, nil
	case "secondary":
		return Secondary, nil
	case "benchmark":
		return Benchmark, nil
	}
	return 0, fmt.Errorf("unknown front-end kind %q (expected primary, secondary or benchmark)", s)
}

// Activation records whether a front-end is active for the project.
type Activation struct {
	Kind   Kind
	Active bool
	Source string // "forced", "detected" or "registry"
}
