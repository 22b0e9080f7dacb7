// Package binder attaches compiler and launcher handles to build tasks according to
// the resolved main and test toolchains and the active compiler front-ends.
//
// The policy, applied in order with later steps winning for the same task:
//
//  1. Primary front-end: with a main override every compile task gets the main
//     compiler and every execute task the main launcher; otherwise compile tasks
//     get the baseline release.
//  2. Secondary front-end: with a main override compile tasks get the main compiler
//     and its bytecode target; otherwise only the baseline target.
//  3. Test override: test tasks of the primary and secondary front-ends get the test
//     compiler or launcher.
//  4. Benchmark front-end with any override: benchmark tasks get the test toolchain.
//
// Binding only attaches deferred handles. Nothing is located until a task runs.
package binder

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/logging"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// ExperimentalProperty is set on test launchers whose version needs the bytecode
// library's experimental support.
const ExperimentalProperty = "net.bytebuddy.experimental"

// DefaultExperimentalVersions are the test versions that get ExperimentalProperty.
var DefaultExperimentalVersions = []int{20}

// Options configures a Binder.
type Options struct {
	Classifier Classifier
	// ExperimentalVersions overrides DefaultExperimentalVersions when non-nil.
	ExperimentalVersions []int
	Logger               *slog.Logger
}

// Binder applies the binding policy to a task graph.
type Binder struct {
	provider     toolchain.Provider
	gate         *frontend.Gate
	classifier   Classifier
	experimental []int
	logger       *slog.Logger
}

// New creates a binder.
func New(provider toolchain.Provider, gate *frontend.Gate, opts Options) *Binder {
	experimental := opts.ExperimentalVersions
	if experimental == nil {
		experimental = DefaultExperimentalVersions
	}
	return &Binder{
		provider:     provider,
		gate:         gate,
		classifier:   opts.Classifier,
		experimental: experimental,
		logger:       logging.OrDiscard(opts.Logger),
	}
}

// Classifier returns the test classifier in use.
func (b *Binder) Classifier() Classifier {
	return b.classifier
}

// Bind configures every task in g for res and returns what was bound.
func (b *Binder) Bind(res toolchain.Resolution, g *taskgraph.Graph) *Plan {
	plan := newPlan(res, b.gate)

	for _, kind := range []frontend.Kind{frontend.Primary, frontend.Secondary} {
		if !b.gate.Active(kind) {
			continue
		}
		for _, t := range g.Matching(ofKind(kind)) {
			b.bindMain(plan, res, t)
		}
	}

	if res.TestOverride.Present {
		for _, t := range g.Matching(b.isBoundTestTask) {
			b.bindTest(plan, res.Test, t)
		}
	}

	if res.AnyOverride() && b.gate.Active(frontend.Benchmark) {
		for _, t := range g.Matching(IsBenchmark) {
			b.bindRole(plan, res.Test, t)
		}
	}

	b.logger.Debug("toolchains bound",
		"main", res.Main.Version.String(),
		"test", res.Test.Version.String(),
		"tasks", len(plan.entries))
	return plan
}

func ofKind(kind frontend.Kind) func(*taskgraph.Task) bool {
	return func(t *taskgraph.Task) bool { return t.Kind == kind }
}

// isBoundTestTask selects test tasks of active primary and secondary front-ends.
func (b *Binder) isBoundTestTask(t *taskgraph.Task) bool {
	if t.Kind != frontend.Primary && t.Kind != frontend.Secondary {
		return false
	}
	return b.classifier.IsTest(t) && b.gate.Active(t.Kind)
}

func (b *Binder) bindMain(plan *Plan, res toolchain.Resolution, t *taskgraph.Task) {
	if !res.MainOverride.Present {
		if !t.Compiles() {
			return
		}
		baseline := res.Main.Version
		if t.Kind == frontend.Secondary {
			t.JVMTarget = baseline.JVMTarget()
		} else {
			t.Release = baseline
		}
		plan.touch(t)
		return
	}

	b.bindRole(plan, res.Main, t)
	if t.Kind == frontend.Secondary && t.Compiles() {
		t.JVMTarget = res.Main.Version.JVMTarget()
	}
}

func (b *Binder) bindTest(plan *Plan, spec toolchain.Spec, t *taskgraph.Task) {
	if !t.Compiles() && !t.Executes() {
		return
	}
	b.bindRole(plan, spec, t)

	if t.Compiles() && t.Kind == frontend.Secondary {
		t.JVMTarget = spec.Version.JVMTarget()
		t.JDKHome = toolchain.Then(t.Compiler, func(h toolchain.Handle) string {
			return h.InstallationPath
		})
	}
	if t.Executes() && slices.Contains(b.experimental, spec.Version.Number()) {
		t.SetSystemProperty(ExperimentalProperty, strconv.FormatBool(true))
	}
}

// bindRole attaches the compiler or launcher for spec, depending on what t does.
func (b *Binder) bindRole(plan *Plan, spec toolchain.Spec, t *taskgraph.Task) {
	switch {
	case t.Compiles():
		t.Compiler = b.provider.CompilerFor(spec)
	case t.Executes():
		t.Launcher = b.provider.LauncherFor(spec)
	default:
		return
	}
	plan.bound(t, spec)
}
