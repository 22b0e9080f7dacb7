package taskgraph

import (
	stderrors "errors"
	"slices"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/AndreyAkinshin/toolpin/internal/errors"
)

// Hook receives task completions. Hooks are called from worker goroutines and
// must be safe for concurrent use.
type Hook func(Completion)

// Graph is a set of named tasks and the dependency edges between them.
// Edges point from a dependency to its dependent.
type Graph struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	deps   graph.Graph[string, string]
	linked bool
	hooks  []Hook
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		tasks: make(map[string]*Task),
		deps:  graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// Add registers a task. Dependencies may name tasks that are added later; they
// are resolved by Link.
func (g *Graph) Add(t *Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t.Name == "" {
		return errors.Config("task name is required")
	}
	if _, exists := g.tasks[t.Name]; exists {
		return errors.Configf("duplicate task %q", t.Name)
	}
	if err := g.deps.AddVertex(t.Name); err != nil {
		return errors.Wrap(err, "failed to add task "+t.Name)
	}
	g.tasks[t.Name] = t
	g.linked = false
	return nil
}

// Link adds the dependency edges of every task. It fails on undefined dependencies
// and on cycles. Link is idempotent.
func (g *Graph) Link() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.link()
}

func (g *Graph) link() error {
	if g.linked {
		return nil
	}
	for _, name := range g.sortedNames() {
		t := g.tasks[name]
		for _, dep := range t.DependsOn {
			if dep == name {
				return errors.Configf("task %q depends on itself", name)
			}
			if _, ok := g.tasks[dep]; !ok {
				return errors.Configf("task %q depends on undefined task %q", name, dep)
			}
			err := g.deps.AddEdge(dep, name)
			switch {
			case err == nil, stderrors.Is(err, graph.ErrEdgeAlreadyExists):
			case stderrors.Is(err, graph.ErrEdgeCreatesCycle):
				return errors.Configf("circular dependency detected involving %q and %q", dep, name)
			default:
				return errors.Wrap(err, "failed to link task "+name)
			}
		}
	}
	g.linked = true
	return nil
}

// Get returns the task with the given name.
func (g *Graph) Get(name string) (*Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.tasks[name]
	return t, ok
}

// Tasks returns every task sorted by name.
func (g *Graph) Tasks() []*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Task, 0, len(g.tasks))
	for _, name := range g.sortedNames() {
		result = append(result, g.tasks[name])
	}
	return result
}

// Matching returns the tasks for which pred is true, sorted by name.
func (g *Graph) Matching(pred func(*Task) bool) []*Task {
	var result []*Task
	for _, t := range g.Tasks() {
		if pred(t) {
			result = append(result, t)
		}
	}
	return result
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tasks)
}

// OnComplete registers a hook called for every finished task.
func (g *Graph) OnComplete(h Hook) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, h)
}

func (g *Graph) notify(c Completion) {
	g.mu.RLock()
	hooks := slices.Clone(g.hooks)
	g.mu.RUnlock()

	for _, h := range hooks {
		h(c)
	}
}

// Order returns the named tasks and their transitive dependencies in dependency
// order, ties broken by name. With no names, every task is included.
func (g *Graph) Order(names ...string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.link(); err != nil {
		return nil, err
	}

	sorted, err := graph.StableTopologicalSort(g.deps, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, errors.Wrap(err, "failed to order tasks")
	}
	if len(names) == 0 {
		return sorted, nil
	}

	predecessors, err := g.deps.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "failed to order tasks")
	}

	wanted := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if wanted[name] {
			return
		}
		wanted[name] = true
		for dep := range predecessors[name] {
			visit(dep)
		}
	}
	for _, name := range names {
		if _, ok := g.tasks[name]; !ok {
			return nil, errors.NotFound("task", name)
		}
		visit(name)
	}

	result := make([]string, 0, len(wanted))
	for _, name := range sorted {
		if wanted[name] {
			result = append(result, name)
		}
	}
	return result, nil
}

// sortedNames must be called with g.mu held.
func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
