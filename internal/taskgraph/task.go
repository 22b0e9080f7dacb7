// Package taskgraph holds the build tasks that toolchains are bound to, their
// dependency graph, and a reference executor that runs them.
package taskgraph

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
	"github.com/AndreyAkinshin/toolpin/internal/version"
)

// Action is what a task does with its toolchain.
type Action int

const (
	// ActionOther tasks use no toolchain.
	ActionOther Action = iota
	// ActionCompile tasks invoke a compiler.
	ActionCompile
	// ActionExecute tasks launch a runtime, such as test or benchmark runs.
	ActionExecute
)

func (a Action) String() string {
	switch a {
	case ActionCompile:
		return "compile"
	case ActionExecute:
		return "execute"
	default:
		return "other"
	}
}

// ParseAction parses a configuration name. An empty name is ActionOther.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compile":
		return ActionCompile, nil
	case "execute":
		return ActionExecute, nil
	case "other", "":
		return ActionOther, nil
	}
	return ActionOther, fmt.Errorf("unknown task action %q (expected compile, execute or other)", s)
}

// Source categories for the explicit Category tag.
const (
	CategoryMain = "main"
	CategoryTest = "test"
)

// Body is the work a task performs after its toolchain handles are realized.
type Body func(ctx context.Context, t *Task) error

// Task describes a build task. Binding fields are written during configuration and
// only read once execution starts.
type Task struct {
	Name      string
	Kind      frontend.Kind
	Action    Action
	Category  string // CategoryMain, CategoryTest or empty
	DependsOn []string
	Body      Body

	// Release is the language level for compile tasks without a bound compiler.
	Release version.Language
	// JVMTarget is the bytecode target of secondary compile tasks.
	JVMTarget string
	// JDKHome is the installation the secondary compiler reads the runtime from.
	JDKHome          *toolchain.Lazy[string]
	SystemProperties map[string]string
	Compiler         *toolchain.Lazy[toolchain.Handle]
	Launcher         *toolchain.Lazy[toolchain.Handle]
}

// Compiles reports whether the task invokes a compiler.
func (t *Task) Compiles() bool {
	return t.Action == ActionCompile
}

// Executes reports whether the task launches a runtime.
func (t *Task) Executes() bool {
	return t.Action == ActionExecute
}

// SetSystemProperty records a system property passed to the launched runtime.
func (t *Task) SetSystemProperty(key, value string) {
	if t.SystemProperties == nil {
		t.SystemProperties = make(map[string]string)
	}
	t.SystemProperties[key] = value
}

// SystemPropertyKeys returns the system property names in sorted order.
func (t *Task) SystemPropertyKeys() []string {
	return slices.Sorted(maps.Keys(t.SystemProperties))
}

func (t *Task) String() string {
	return t.Name
}
