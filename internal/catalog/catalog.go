// Package catalog implements the node library: the concrete
// transformer/source/sink node types an engine host wires together via the
// config loader. The core engine (scheduler, graph fabric, predicate
// evaluator) does not depend on this package; catalog only depends on the
// core packages, keeping node types swappable without touching the engine.
package catalog

import (
	"fmt"
	"sync"

	"github.com/vftdan/est-go/internal/graph"
)

// Registry holds the set of known NodeSpecifications, addressed by name.
// Node libraries register themselves once at process start, and the
// config loader looks them up by the "type" field of each configured node.
type Registry struct {
	mu   sync.RWMutex
	byName map[string]*graph.NodeSpecification
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*graph.NodeSpecification)}
}

// Register adds spec under spec.Name. It panics on a duplicate name, since
// duplicate node-type registration is a programming error caught at
// init-time, never a runtime condition.
func (r *Registry) Register(spec *graph.NodeSpecification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[spec.Name]; exists {
		panic(fmt.Sprintf("catalog: duplicate node type %q", spec.Name))
	}
	r.byName[spec.Name] = spec
}

// Lookup returns the NodeSpecification registered under name, or nil if
// none is registered.
func (r *Registry) Lookup(name string) *graph.NodeSpecification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Standard is the package-level registry populated by init() with every
// built-in node type. Hosts that want a reduced or extended set can build
// their own Registry instead.
var Standard = NewRegistry()

func init() {
	Standard.Register(teeSpec)
	Standard.Register(assignSpec)
	Standard.Register(scaleSpec)
	Standard.Register(integrateSpec)
	Standard.Register(differentiateSpec)
	Standard.Register(modifiersSpec)
	Standard.Register(routerSpec)
	Standard.Register(modifyPredicateSpec)
	Standard.Register(windowSpec)
	Standard.Register(printSpec)
	Standard.Register(getcharSpec)
	Standard.Register(evdevSpec)
	Standard.Register(uinputSpec)
}

// Register adds a node type to the Standard registry under name,
// overriding spec.Name. Config loaders call this (directly, or via a
// caller-supplied Registry) to extend the catalog with host-specific node
// types.
func Register(name string, spec *graph.NodeSpecification) {
	clone := *spec
	clone.Name = name
	Standard.Register(&clone)
}

// Lookup returns the NodeSpecification registered under name in the
// Standard registry, or nil if none is registered.
func Lookup(name string) *graph.NodeSpecification {
	return Standard.Lookup(name)
}
