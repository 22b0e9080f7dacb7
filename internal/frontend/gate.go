package frontend

import "sync"

// Gate memoizes a Registry: each kind is evaluated at most once, independently of
// the others. A Gate is safe for concurrent use.
type Gate struct {
	registry Registry
	forced   map[Kind]bool

	mu     sync.Mutex
	answer map[Kind]bool
}

// NewGate creates a gate over registry. Entries in forced take precedence over the
// registry and never consult it.
func NewGate(registry Registry, forced map[Kind]bool) *Gate {
	return &Gate{
		registry: registry,
		forced:   forced,
		answer:   make(map[Kind]bool, len(Kinds)),
	}
}

// Active reports whether the front-end is active. The first call per kind consults
// the registry; later calls return the memoized answer.
func (g *Gate) Active(kind Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if active, ok := g.answer[kind]; ok {
		return active
	}
	active := g.evaluate(kind)
	g.answer[kind] = active
	return active
}

func (g *Gate) evaluate(kind Kind) bool {
	if active, ok := g.forced[kind]; ok {
		return active
	}
	if g.registry == nil {
		return false
	}
	return g.registry.IsPluginActive(kind)
}

// Activations returns the answer for every kind, in Kinds order.
func (g *Gate) Activations() []Activation {
	result := make([]Activation, 0, len(Kinds))
	for _, kind := range Kinds {
		source := "registry"
		if _, ok := g.forced[kind]; ok {
			source = "forced"
		} else if _, ok := g.registry.(Detector); ok {
			source = "detected"
		}
		result = append(result, Activation{Kind: kind, Active: g.Active(kind), Source: source})
	}
	return result
}
