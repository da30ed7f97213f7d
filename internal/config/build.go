package config

import (
	"fmt"

	"github.com/vftdan/est-go/internal/catalog"
	"github.com/vftdan/est-go/internal/engine"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/predicate"
)

// Build constructs a graph.Graph from doc against rt, resolving node types
// through the catalog registry and wiring channels in declaration order.
// rt.Predicates is populated as a side effect if it was nil.
func Build(doc *Document, rt *graph.Runtime) (*graph.Graph, error) {
	if rt.Predicates == nil {
		rt.Predicates = predicate.NewRegistry()
	}

	predicateNames, err := buildPredicates(doc.Predicates, rt.Predicates)
	if err != nil {
		return nil, err
	}

	env := &graph.InitEnv{Runtime: rt, Constants: doc.Constants}
	g := graph.NewGraph(rt)

	for _, nc := range doc.Nodes {
		spec := catalog.Lookup(nc.Type)
		if spec == nil {
			return nil, fmt.Errorf("config: node %q: %w: %q", nc.Name, engine.ErrUnknownNodeType, nc.Type)
		}
		opts, err := convertOptions(nc.Type, nc.Options, predicateNames)
		if err != nil {
			return nil, fmt.Errorf("config: node %q: %w", nc.Name, err)
		}
		cfg := &graph.NodeConfig{Name: nc.Name, Type: nc.Type, Options: opts}
		node, err := spec.Create(spec, cfg, env)
		if err != nil {
			return nil, fmt.Errorf("config: node %q: create: %w", nc.Name, err)
		}
		if err := g.AddNode(nc.Name, node, spec); err != nil {
			return nil, err
		}
	}

	for i, cc := range doc.Channels {
		if _, err := g.Connect(cc.FromNode, cc.FromIndex, cc.ToNode, cc.ToIndex); err != nil {
			return nil, fmt.Errorf("config: channel %d: %w: %w", i, engine.ErrUnknownSlot, err)
		}
	}

	return g, nil
}
