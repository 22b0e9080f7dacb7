// Package property provides the key/value configuration source that toolchain
// selection reads. Values come from layered sources: command line, environment,
// a project properties file and the project configuration file.
package property

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
)

// Recognized property names.
const (
	MainToolchain   = "mainToolchain"
	TestToolchain   = "testToolchain"
	ToolchainVendor = "toolchainVendor"
)

// DefaultEnvPrefix is the prefix for environment variable overrides.
const DefaultEnvPrefix = "TOOLPIN_"

// FileName is the project properties file, read from the project root.
const FileName = "toolpin.properties"

// Source looks up a named property.
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is an in-memory Source.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Layer is a named Source inside a Chain.
type Layer struct {
	Name   string
	Source Source
}

// Chain consults layers in order. A blank value is treated as absent and the
// lookup falls through to the next layer.
type Chain []Layer

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	v, _, ok := c.Origin(name)
	return v, ok
}

// Origin returns the value and the name of the layer that supplied it.
func (c Chain) Origin(name string) (value, layer string, ok bool) {
	for _, l := range c {
		if l.Source == nil {
			continue
		}
		v, found := l.Source.Lookup(name)
		if found && strings.TrimSpace(v) != "" {
			return v, l.Name, true
		}
	}
	return "", "", false
}

// Env reads properties from environment variables named Prefix + EnvName(name).
type Env struct {
	Prefix string
	Getenv func(string) (string, bool)
}

// NewEnv returns an Env source over the process environment.
func NewEnv(prefix string) Env {
	return Env{Prefix: prefix, Getenv: os.LookupEnv}
}

// Lookup implements Source.
func (e Env) Lookup(name string) (string, bool) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	return getenv(e.Prefix + EnvName(name))
}

// EnvName converts a camelCase property name to UPPER_SNAKE_CASE
// (mainToolchain -> MAIN_TOOLCHAIN).
func EnvName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// LoadFile reads a properties file in key=value form.
// A missing file yields an empty Map.
func LoadFile(path string) (Map, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}
	return Map(values), nil
}

// ParseAssignment splits a "key=value" command line assignment.
func ParseAssignment(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid property %q: expected key=value", s)
	}
	return key, value, nil
}
