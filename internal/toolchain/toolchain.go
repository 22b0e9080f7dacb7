// Package toolchain selects the toolchain that compiles main sources and compiles and
// runs test sources, and realizes compiler and launcher handles for it on demand.
package toolchain

import (
	"fmt"

	"github.com/AndreyAkinshin/toolpin/internal/property"
	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// Role denotes which source category a toolchain binding applies to.
type Role int

const (
	RoleMain Role = iota
	RoleTest
)

// Roles lists every role in reporting order.
var Roles = []Role{RoleMain, RoleTest}

// String returns "main" or "test".
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RoleTest:
		return "test"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// PropertyName returns the configuration property that overrides this role.
func (r Role) PropertyName() string {
	if r == RoleTest {
		return property.TestToolchain
	}
	return property.MainToolchain
}

// Spec is the toolchain requested for a role. It is immutable once resolved.
type Spec struct {
	Role    Role
	Version version.Language
	Vendor  string // Optional vendor constraint; empty matches any vendor
}

func (s Spec) String() string {
	if s.Vendor != "" {
		return fmt.Sprintf("%s %s (%s)", s.Role, s.Version, s.Vendor)
	}
	return fmt.Sprintf("%s %s", s.Role, s.Version)
}

// Handle identifies a realized compiler or launcher.
type Handle struct {
	Vendor           string
	Version          version.Language
	FullVersion      string
	InstallationPath string
	Executable       string
}

// Describe renders the handle as "<vendor> <version> (<installation path>)".
func (h Handle) Describe() string {
	return fmt.Sprintf("%s %s (%s)", h.Vendor, h.Version, h.InstallationPath)
}
