package binder

import (
	"maps"
	"slices"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// Binding describes how one task was configured.
type Binding struct {
	Task             string            `json:"task" yaml:"task"`
	FrontEnd         string            `json:"frontend" yaml:"frontend"`
	Action           string            `json:"action" yaml:"action"`
	Role             string            `json:"role,omitempty" yaml:"role,omitempty"`
	Toolchain        string            `json:"toolchain,omitempty" yaml:"toolchain,omitempty"`
	Compiler         bool              `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	Launcher         bool              `json:"launcher,omitempty" yaml:"launcher,omitempty"`
	Release          string            `json:"release,omitempty" yaml:"release,omitempty"`
	JVMTarget        string            `json:"jvmTarget,omitempty" yaml:"jvmTarget,omitempty"`
	JDKHome          bool              `json:"jdkHome,omitempty" yaml:"jdkHome,omitempty"`
	SystemProperties map[string]string `json:"systemProperties,omitempty" yaml:"systemProperties,omitempty"`
}

// Plan records the outcome of Bind.
type Plan struct {
	Resolution  toolchain.Resolution
	Activations []frontend.Activation

	entries map[string]*entry
}

type entry struct {
	task *taskgraph.Task
	spec *toolchain.Spec
}

func newPlan(res toolchain.Resolution, gate *frontend.Gate) *Plan {
	return &Plan{
		Resolution:  res,
		Activations: gate.Activations(),
		entries:     make(map[string]*entry),
	}
}

func (p *Plan) touch(t *taskgraph.Task) *entry {
	e, ok := p.entries[t.Name]
	if !ok {
		e = &entry{task: t}
		p.entries[t.Name] = e
	}
	return e
}

func (p *Plan) bound(t *taskgraph.Task, spec toolchain.Spec) {
	p.touch(t).spec = &spec
}

// Touched reports whether Bind configured the named task.
func (p *Plan) Touched(name string) bool {
	_, ok := p.entries[name]
	return ok
}

// BoundSpec returns the toolchain spec last bound to the named task.
func (p *Plan) BoundSpec(name string) (toolchain.Spec, bool) {
	e, ok := p.entries[name]
	if !ok || e.spec == nil {
		return toolchain.Spec{}, false
	}
	return *e.spec, true
}

// Bindings returns the configured tasks sorted by name, reflecting their current state.
func (p *Plan) Bindings() []Binding {
	names := slices.Sorted(maps.Keys(p.entries))
	result := make([]Binding, 0, len(names))
	for _, name := range names {
		e := p.entries[name]
		t := e.task
		b := Binding{
			Task:      t.Name,
			FrontEnd:  t.Kind.String(),
			Action:    t.Action.String(),
			Compiler:  t.Compiler != nil,
			Launcher:  t.Launcher != nil,
			JVMTarget: t.JVMTarget,
			JDKHome:   t.JDKHome != nil,
		}
		if !t.Release.IsZero() {
			b.Release = t.Release.String()
		}
		if e.spec != nil {
			b.Role = e.spec.Role.String()
			b.Toolchain = e.spec.Version.String()
			if e.spec.Vendor != "" {
				b.Toolchain += " (" + e.spec.Vendor + ")"
			}
		}
		if len(t.SystemProperties) > 0 {
			b.SystemProperties = maps.Clone(t.SystemProperties)
		}
		result = append(result, b)
	}
	return result
}
