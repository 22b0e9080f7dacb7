// Package version provides toolchain language version identifiers.
//
// A language version is the feature-release number of a runtime ("8", "17", "21").
// Identifiers are opaque: a string that cannot be interpreted is kept verbatim so the
// toolchain provider can reject it when a handle is realized.
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LanguageRegex matches the forms accepted as a language version:
// "17", "17.0.2", "1.8", "1.8.0_292", "21-ea", "21.0.1+12".
var LanguageRegex = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:[._]\d+)*(?:[-+][0-9A-Za-z.+-]*)?$`)

// Language is a toolchain language version identifier.
// The zero value is an unset identifier.
type Language struct {
	raw    string
	number int
}

// Of returns the identifier for a feature-release number.
func Of(n int) Language {
	return Language{raw: strconv.Itoa(n), number: n}
}

// Parse interprets raw as a language version. It never fails: input that does not
// match LanguageRegex is carried uninterpreted and reports Known() == false.
func Parse(raw string) Language {
	raw = strings.TrimSpace(raw)
	n, ok := parseNumber(raw)
	if !ok {
		return Language{raw: raw}
	}
	return Language{raw: raw, number: n}
}

// Validate checks that raw is an interpretable language version.
func Validate(raw string) error {
	if _, ok := parseNumber(strings.TrimSpace(raw)); !ok {
		return fmt.Errorf("invalid language version: %q", raw)
	}
	return nil
}

// parseNumber extracts the feature-release number, mapping the legacy "1.N" form to N.
func parseNumber(raw string) (int, bool) {
	match := LanguageRegex.FindStringSubmatch(raw)
	if match == nil {
		return 0, false
	}

	// Errors ignored: regex guarantees these capture groups contain only digits
	major, _ := strconv.Atoi(match[1])
	if major == 1 && match[2] != "" {
		minor, _ := strconv.Atoi(match[2])
		if minor > 1 {
			return minor, true
		}
	}
	if major == 0 {
		return 0, false
	}
	return major, true
}

// Known reports whether the identifier was interpreted as a feature-release number.
func (l Language) Known() bool {
	return l.number > 0
}

// IsZero reports whether the identifier is unset.
func (l Language) IsZero() bool {
	return l.raw == "" && l.number == 0
}

// Number returns the feature-release number, or 0 if the identifier is not known.
func (l Language) Number() int {
	return l.number
}

// Raw returns the identifier exactly as supplied.
func (l Language) Raw() string {
	return l.raw
}

// String returns the canonical number for known identifiers and the raw text otherwise.
func (l Language) String() string {
	if l.Known() {
		return strconv.Itoa(l.number)
	}
	return l.raw
}

// JVMTarget returns the bytecode target spelling used by secondary compilers,
// which still expect the legacy "1.8" form for release 8.
func (l Language) JVMTarget() string {
	if l.number == 8 {
		return "1.8"
	}
	return l.String()
}

// Equal reports whether two identifiers denote the same version.
func (l Language) Equal(other Language) bool {
	return Compare(l, other) == 0
}

// Compare orders identifiers by feature-release number.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
// Known identifiers sort before unknown ones; unknown ones compare by raw text.
func Compare(a, b Language) int {
	switch {
	case a.Known() && b.Known():
		return cmp.Compare(a.number, b.number)
	case a.Known():
		return -1
	case b.Known():
		return 1
	default:
		return strings.Compare(a.raw, b.raw)
	}
}

// CompareFull compares two full runtime version strings ("17.0.2", "17.0.10+7",
// "1.8.0_292") component by component. Non-numeric components compare as text.
func CompareFull(a, b string) int {
	partsA := splitFull(a)
	partsB := splitFull(b)

	minLen := min(len(partsA), len(partsB))
	for i := 0; i < minLen; i++ {
		if c := compareComponent(partsA[i], partsB[i]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(partsA), len(partsB))
}

func splitFull(v string) []string {
	return strings.FieldsFunc(strings.TrimSpace(v), func(r rune) bool {
		return r == '.' || r == '_' || r == '+' || r == '-'
	})
}

func compareComponent(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)

	if aErr == nil && bErr == nil {
		return cmp.Compare(aNum, bNum)
	}
	// Numeric components rank above textual ones such as "ea"
	if aErr == nil {
		return 1
	}
	if bErr == nil {
		return -1
	}
	return strings.Compare(a, b)
}
