package catalog

import (
	"fmt"

	"github.com/vftdan/est-go/internal/engine"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/predicate"
)

// routerBehavior conditionally copies an incoming event to each output
// connector whose configured predicate accepts it. Unlike the
// broadcast-based transformers, a router destroys the original after
// emitting replicas: zero, one, or many outputs may fire for a single
// arrival.
type routerBehavior struct {
	rt         *graph.Runtime
	predicates []predicate.Handle
}

func (b routerBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	for i := len(b.predicates) - 1; i >= 0; i-- {
		if i >= len(n.Outputs) {
			continue
		}
		if b.rt.Predicates.Apply(b.predicates[i], ev) != predicate.Accepted {
			continue
		}
		if b.rt.Events.Replicate(ev, 1) == 1 {
			replica := b.rt.Events.Next(ev)
			out := n.Outputs[i]
			if out == nil {
				b.rt.Events.Destroy(replica)
			} else {
				replica.Position = out
			}
		}
	}
	b.rt.Events.Destroy(ev)
	return true
}

var routerSpec = &graph.NodeSpecification{
	Name: "router",
	Documentation: "Conditionally copies the received events\nAccepts events on any connector\nSends events on all connectors with configured predicates" +
		"\nOption 'predicates' (required): collection of predicates in the order of output connectors from zero, a received event is copied to the given connector iff it satisfies the predicate",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		names, ok := cfg.Options["predicates"]
		if !ok {
			return nil, fmt.Errorf("catalog: router node %q: missing required option 'predicates'", cfg.Name)
		}
		handles, ok := names.([]predicate.Handle)
		if !ok {
			return nil, fmt.Errorf("catalog: router node %q: option 'predicates' has the wrong shape", cfg.Name)
		}
		resolved := make([]predicate.Handle, len(handles))
		for i, h := range handles {
			resolved[i] = env.ResolvePredicate(h)
			if resolved[i] == predicate.Invalid {
				return nil, fmt.Errorf("catalog: router node %q: %w: output %d", cfg.Name, engine.ErrUnknownPredicate, i)
			}
		}
		return graph.NewNode(cfg.Name, spec, routerBehavior{rt: env.Runtime, predicates: resolved}), nil
	},
}
