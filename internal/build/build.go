// Package build runs the configuration phase of a build: it resolves the main and
// test toolchains, decides which front-ends are active, binds toolchains to tasks
// and registers the resolution reporter. Run then executes the configured graph.
package build

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/AndreyAkinshin/toolpin/internal/binder"
	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/logging"
	"github.com/AndreyAkinshin/toolpin/internal/property"
	"github.com/AndreyAkinshin/toolpin/internal/report"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// Options holds everything the configuration phase reads.
type Options struct {
	Properties property.Source
	Registry   frontend.Registry
	// Forced front-end answers win over the registry.
	Forced   map[frontend.Kind]bool
	Provider toolchain.Provider
	// Tasks are the project's tasks. When empty, the conventional tasks of every
	// active front-end are used.
	Tasks   []*taskgraph.Task
	Binding binder.Options
	Sink    report.Sink
	Workers int
	Logger  *slog.Logger
}

// Build is a configured build.
type Build struct {
	Resolution toolchain.Resolution
	Gate       *frontend.Gate
	Graph      *taskgraph.Graph
	Plan       *binder.Plan
	Reporter   *report.Reporter

	sink    report.Sink
	workers int
	logger  *slog.Logger
}

// Configure performs the configuration phase. It is single-threaded and realizes
// no toolchain.
func Configure(opts Options) (*Build, error) {
	if opts.Provider == nil {
		return nil, errors.Config("no toolchain provider configured")
	}
	logger := logging.OrDiscard(opts.Logger)

	res := toolchain.Resolve(opts.Properties)
	logger.Debug("toolchains resolved",
		"main", res.Main.Version.String(),
		"mainOverride", res.MainOverride.Present,
		"test", res.Test.Version.String(),
		"testOverride", res.TestOverride.Present,
		"vendor", res.Main.Vendor)

	gate := frontend.NewGate(opts.Registry, opts.Forced)

	g := taskgraph.New()
	if len(opts.Tasks) == 0 {
		if err := taskgraph.AddConventional(g, gate.Active); err != nil {
			return nil, err
		}
	} else {
		for _, t := range opts.Tasks {
			if err := g.Add(t); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Link(); err != nil {
		return nil, err
	}

	bindOpts := opts.Binding
	if bindOpts.Logger == nil {
		bindOpts.Logger = logger
	}
	b := binder.New(opts.Provider, gate, bindOpts)
	plan := b.Bind(res, g)

	sink := opts.Sink
	if sink == nil {
		sink = report.Discard
	}
	reporter := report.New(report.Options{
		Resolution: res,
		RoleOf:     b.Classifier().RoleOf,
		Sink:       sink,
		Logger:     logger,
	})
	g.OnComplete(reporter.Observe)

	return &Build{
		Resolution: res,
		Gate:       gate,
		Graph:      g,
		Plan:       plan,
		Reporter:   reporter,
		sink:       sink,
		workers:    opts.Workers,
		logger:     logger,
	}, nil
}

// Run executes the named tasks, or all tasks, and flushes buffered report sinks.
// Task failures are in the result; the error covers graph problems and
// cancellation. A sink that cannot be flushed is logged and does not change the
// outcome.
func (b *Build) Run(ctx context.Context, names ...string) (*taskgraph.Result, error) {
	exec := &taskgraph.Executor{Graph: b.Graph, Workers: b.workers, Logger: b.logger}
	result, err := exec.Run(ctx, names...)
	if result == nil {
		return nil, err
	}

	if f, ok := b.sink.(report.Flusher); ok {
		if flushErr := f.Flush(); flushErr != nil {
			b.logger.Warn("failed to write toolchain report", "error", flushErr)
		}
	}
	return result, err
}

// Failed reports whether any task in result failed.
func Failed(result *taskgraph.Result) bool {
	return result != nil && result.Count(taskgraph.StateFailed) > 0
}

// ExitError converts a run result into the error the CLI exits with.
// Toolchain errors keep their kind so the exit code reflects them.
func ExitError(result *taskgraph.Result) error {
	if result == nil {
		return nil
	}
	err := result.Err()
	if err == nil {
		return nil
	}
	var te *errors.ToolpinError
	if stderrors.As(err, &te) {
		return &errors.ToolpinError{Kind: te.Kind, Message: "build failed", Cause: err}
	}
	return errors.Wrap(err, "build failed")
}
