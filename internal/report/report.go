// Package report emits the toolchain actually used for each role, once per build.
package report

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/toolpin/internal/logging"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

var titleCaser = cases.Title(language.English)

// Label returns the sink label for role, e.g. "Main toolchain".
func Label(role toolchain.Role) string {
	return titleCaser.String(role.String()) + " toolchain"
}

// Latch holds one fire-once flag per role. The zero value is armed.
type Latch struct {
	fired [2]atomic.Bool
}

// Fire moves role from armed to fired. It returns true for exactly one caller.
func (l *Latch) Fire(role toolchain.Role) bool {
	if int(role) < 0 || int(role) >= len(l.fired) {
		return false
	}
	return l.fired[role].CompareAndSwap(false, true)
}

// Fired reports whether role has fired.
func (l *Latch) Fired(role toolchain.Role) bool {
	if int(role) < 0 || int(role) >= len(l.fired) {
		return false
	}
	return l.fired[role].Load()
}

// Record is an emitted report.
type Record struct {
	Role   toolchain.Role   `json:"-" yaml:"-"`
	Label  string           `json:"label" yaml:"label"`
	Value  string           `json:"value" yaml:"value"`
	Task   string           `json:"task" yaml:"task"`
	Handle toolchain.Handle `json:"-" yaml:"-"`
}

// Options configures a Reporter.
type Options struct {
	Resolution toolchain.Resolution
	// RoleOf returns the role a task reports for; false excludes the task.
	RoleOf func(*taskgraph.Task) (toolchain.Role, bool)
	Sink   Sink
	Latch  *Latch
	Logger *slog.Logger
}

// Reporter observes task completions and reports the first realized toolchain of
// each explicitly configured role.
type Reporter struct {
	res    toolchain.Resolution
	roleOf func(*taskgraph.Task) (toolchain.Role, bool)
	sink   Sink
	latch  *Latch
	logger *slog.Logger

	mu      sync.Mutex
	records []Record
}

// New creates a reporter with every role armed.
func New(opts Options) *Reporter {
	latch := opts.Latch
	if latch == nil {
		latch = &Latch{}
	}
	sink := opts.Sink
	if sink == nil {
		sink = Discard
	}
	return &Reporter{
		res:    opts.Resolution,
		roleOf: opts.RoleOf,
		sink:   sink,
		latch:  latch,
		logger: logging.OrDiscard(opts.Logger),
	}
}

// Observe is a taskgraph completion hook. It is safe for concurrent use.
//
// Main reports on a successful compile task with a realized compiler; test reports
// on a successful execute task with a realized launcher. A role reports only when
// its override was supplied explicitly.
func (r *Reporter) Observe(c taskgraph.Completion) {
	if c.State != taskgraph.StateSucceeded || c.Task == nil || r.roleOf == nil {
		return
	}
	t := c.Task
	role, ok := r.roleOf(t)
	if !ok || !r.res.Configured(role) {
		return
	}

	var ref *toolchain.Lazy[toolchain.Handle]
	switch {
	case role == toolchain.RoleMain && t.Compiles():
		ref = t.Compiler
	case role == toolchain.RoleTest && t.Executes():
		ref = t.Launcher
	}
	if ref == nil {
		return
	}
	h, ok := ref.Peek()
	if !ok {
		return
	}

	if r.latch.Fire(role) {
		r.emit(Record{Role: role, Label: Label(role), Value: h.Describe(), Task: t.Name, Handle: h})
	}
}

func (r *Reporter) emit(rec Record) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	if err := r.record(rec); err != nil {
		r.logger.Warn("failed to record toolchain", "label", rec.Label, "error", err)
	}
}

func (r *Reporter) record(rec Record) error {
	return safeRecord(r.sink, rec.Label, rec.Value)
}

// Reported returns the emitted records in emission order.
func (r *Reporter) Reported() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Record, len(r.records))
	copy(result, r.records)
	return result
}

// Latch returns the reporter's latch.
func (r *Reporter) Latch() *Latch {
	return r.latch
}
