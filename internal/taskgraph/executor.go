package taskgraph

import (
	"context"
	stderrors "errors"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/logging"
)

// State is the outcome of a task.
type State int

const (
	StateSucceeded State = iota
	StateFailed
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Completion reports a finished task.
type Completion struct {
	Task     *Task
	State    State
	Err      error
	Duration time.Duration
}

// Result collects the completions of one run in execution order.
type Result struct {
	Completions []Completion
}

// Count returns the number of completions in state s.
func (r *Result) Count(s State) int {
	n := 0
	for _, c := range r.Completions {
		if c.State == s {
			n++
		}
	}
	return n
}

// Err joins the errors of failed tasks.
func (r *Result) Err() error {
	var errs []error
	for _, c := range r.Completions {
		if c.State == StateFailed {
			errs = append(errs, c.Err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return stderrors.Join(errs...)
	}
}

// Executor runs a graph stage by stage. Tasks in a stage have all their
// dependencies in earlier stages and run concurrently, bounded by Workers.
type Executor struct {
	Graph   *Graph
	Workers int // Zero means runtime.NumCPU()
	Logger  *slog.Logger
}

// Run executes the named tasks and their dependencies, or every task when names is
// empty. A task whose toolchain cannot be realized fails; tasks depending on it are
// skipped and unrelated tasks continue. Task failures are reported in the Result.
// The returned error covers graph problems and cancellation; a canceled run still
// returns the completions recorded so far.
func (e *Executor) Run(ctx context.Context, names ...string) (*Result, error) {
	order, err := e.Graph.Order(names...)
	if err != nil {
		return nil, err
	}

	logger := logging.OrDiscard(e.Logger)
	workers := e.Workers
	if workers <= 0 {
		workers = max(1, runtime.NumCPU())
	}

	var (
		mu     sync.Mutex
		states = make(map[string]State, len(order))
		result = &Result{}
	)
	record := func(c Completion) {
		mu.Lock()
		states[c.Task.Name] = c.State
		result.Completions = append(result.Completions, c)
		mu.Unlock()
		e.Graph.notify(c)
	}

	for _, stage := range e.stages(order) {
		var g errgroup.Group
		g.SetLimit(workers)

		for _, t := range stage {
			mu.Lock()
			blocked := slices.ContainsFunc(t.DependsOn, func(dep string) bool {
				return states[dep] != StateSucceeded
			})
			mu.Unlock()

			if blocked {
				logger.Debug("task skipped", "task", t.Name, "reason", "dependency did not succeed")
				record(Completion{Task: t, State: StateSkipped})
				continue
			}
			if ctx.Err() != nil {
				record(Completion{Task: t, State: StateSkipped, Err: ctx.Err()})
				continue
			}

			g.Go(func() error {
				start := time.Now()
				err := perform(ctx, t)
				c := Completion{Task: t, State: StateSucceeded, Duration: time.Since(start)}
				if err != nil {
					c.State = StateFailed
					c.Err = err
					logger.Warn("task failed", "task", t.Name, "error", err)
				} else {
					logger.Debug("task succeeded", "task", t.Name, "duration", c.Duration)
				}
				record(c)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(err, "build interrupted")
	}
	return result, nil
}

// stages groups ordered task names by dependency depth.
func (e *Executor) stages(order []string) [][]*Task {
	depth := make(map[string]int, len(order))
	var stages [][]*Task

	for _, name := range order {
		t, _ := e.Graph.Get(name)
		d := 0
		for _, dep := range t.DependsOn {
			d = max(d, depth[dep]+1)
		}
		depth[name] = d
		for len(stages) <= d {
			stages = append(stages, nil)
		}
		stages[d] = append(stages[d], t)
	}
	return stages
}

// perform realizes the task's toolchain handles and runs its body.
func perform(ctx context.Context, t *Task) error {
	if t.Compiler != nil {
		if _, err := t.Compiler.Get(); err != nil {
			return errors.TaskError(t.Name, "compiler", err)
		}
	}
	if t.Launcher != nil {
		if _, err := t.Launcher.Get(); err != nil {
			return errors.TaskError(t.Name, "launcher", err)
		}
	}
	if t.JDKHome != nil {
		if _, err := t.JDKHome.Get(); err != nil {
			return errors.TaskError(t.Name, "compiler", err)
		}
	}
	if t.Body != nil {
		if err := t.Body(ctx, t); err != nil {
			var te *errors.ToolpinError
			if stderrors.As(err, &te) && te.Task != "" {
				return err
			}
			return &errors.ToolpinError{Kind: errors.KindRuntime, Task: t.Name, Message: "task failed", Cause: err}
		}
	}
	return nil
}
