package toolchain

import (
	"strings"

	"github.com/AndreyAkinshin/toolpin/internal/property"
	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// BaselineVersion is the language version used when no main override is configured.
const BaselineVersion = 17

// Baseline returns the baseline language version.
func Baseline() version.Language {
	return version.Of(BaselineVersion)
}

// Override is a user-supplied version for a role.
// Present is the only trigger for departing from defaults.
type Override struct {
	Role    Role
	Raw     string
	Present bool
}

// NewOverride builds an override from a property lookup. Blank values are absent.
func NewOverride(role Role, raw string, found bool) Override {
	return Override{
		Role:    role,
		Raw:     raw,
		Present: found && strings.TrimSpace(raw) != "",
	}
}

// LookupOverride reads the override for role from src.
func LookupOverride(src property.Source, role Role) Override {
	if src == nil {
		return Override{Role: role}
	}
	raw, found := src.Lookup(role.PropertyName())
	return NewOverride(role, raw, found)
}

// ResolveMainVersion returns the override when present and the baseline otherwise.
// It never fails: an uninterpretable override is passed through to the provider.
func ResolveMainVersion(o Override) version.Language {
	if o.Present {
		return version.Parse(o.Raw)
	}
	return Baseline()
}

// ResolveTestVersion returns the override when present and the main version otherwise.
func ResolveTestVersion(o Override, main version.Language) version.Language {
	if o.Present {
		return version.Parse(o.Raw)
	}
	return main
}

// Resolution is the outcome of toolchain selection for one build.
type Resolution struct {
	Main         Spec
	Test         Spec
	MainOverride Override
	TestOverride Override
}

// Resolve reads the main and test overrides and the optional vendor constraint
// from src and computes both specs.
func Resolve(src property.Source) Resolution {
	mainOverride := LookupOverride(src, RoleMain)
	testOverride := LookupOverride(src, RoleTest)

	var vendor string
	if src != nil {
		if v, ok := src.Lookup(property.ToolchainVendor); ok {
			vendor = strings.TrimSpace(v)
		}
	}

	mainVersion := ResolveMainVersion(mainOverride)
	testVersion := ResolveTestVersion(testOverride, mainVersion)

	return Resolution{
		Main:         Spec{Role: RoleMain, Version: mainVersion, Vendor: vendor},
		Test:         Spec{Role: RoleTest, Version: testVersion, Vendor: vendor},
		MainOverride: mainOverride,
		TestOverride: testOverride,
	}
}

// Configured reports whether role was explicitly overridden.
// An inherited test version does not count.
func (r Resolution) Configured(role Role) bool {
	if role == RoleTest {
		return r.TestOverride.Present
	}
	return r.MainOverride.Present
}

// AnyOverride reports whether either role was explicitly overridden.
func (r Resolution) AnyOverride() bool {
	return r.MainOverride.Present || r.TestOverride.Present
}

// Spec returns the resolved spec for role.
func (r Resolution) Spec(role Role) Spec {
	if role == RoleTest {
		return r.Test
	}
	return r.Main
}
