package graph

import "fmt"

// Graph is the constructed node/channel collection a config.Build call
// produces: every node addressable by its configured name, plus the
// Runtime it was built against — a concrete, lookup-able home for "the
// host wires nodes and channels together".
type Graph struct {
	Runtime  *Runtime
	Nodes    map[string]*Node
	Channels []*Channel

	order []string
	specs map[string]*NodeSpecification
}

// NewGraph returns an empty Graph bound to rt.
func NewGraph(rt *Runtime) *Graph {
	return &Graph{
		Runtime: rt,
		Nodes:   make(map[string]*Node),
		specs:   make(map[string]*NodeSpecification),
	}
}

// AddNode registers n under name, tracking its NodeSpecification so Close
// and RegisterIO can later visit it in insertion order. It is an error to
// reuse a name.
func (g *Graph) AddNode(name string, n *Node, spec *NodeSpecification) error {
	if _, exists := g.Nodes[name]; exists {
		return fmt.Errorf("graph: duplicate node name %q", name)
	}
	g.Nodes[name] = n
	g.specs[name] = spec
	g.order = append(g.order, name)
	return nil
}

// Node looks up a constructed node by its configured name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.Nodes[name]
	return n, ok
}

// Connect wires a channel between two named nodes' slots and tracks it for
// teardown, failing if either endpoint name is unknown.
func (g *Graph) Connect(fromName string, fromIdx int, toName string, toIdx int) (*Channel, error) {
	from, ok := g.Nodes[fromName]
	if !ok {
		return nil, fmt.Errorf("graph: channel references unknown node %q", fromName)
	}
	to, ok := g.Nodes[toName]
	if !ok {
		return nil, fmt.Errorf("graph: channel references unknown node %q", toName)
	}
	ch := NewChannel(g.Runtime, from, fromIdx, to, toIdx)
	g.Channels = append(g.Channels, ch)
	return ch, nil
}

// RegisterIO calls every node's NodeSpecification.RegisterIO, in the order
// nodes were added, stopping at the first error.
func (g *Graph) RegisterIO() error {
	for _, name := range g.order {
		n := g.Nodes[name]
		spec := g.specs[name]
		if spec == nil || spec.RegisterIO == nil {
			continue
		}
		if err := spec.RegisterIO(spec, n, g.Runtime); err != nil {
			return fmt.Errorf("graph: register_io for node %q: %w", name, err)
		}
	}
	return nil
}

// Close calls each node's NodeSpecification.Destroy exactly once, in the
// order nodes were added.
func (g *Graph) Close() {
	for _, name := range g.order {
		n := g.Nodes[name]
		spec := g.specs[name]
		if spec == nil || spec.Destroy == nil {
			continue
		}
		spec.Destroy(spec, n)
	}
}
