package catalog

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

type teeBehavior struct {
	rt *graph.Runtime
}

func (b teeBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	graph.Broadcast(b.rt, n, ev)
	return true
}

var teeSpec = &graph.NodeSpecification{
	Name: "tee",
	Documentation: "Passes events through unchanged.\n" +
		"Accepts events on any connector\nSends events on all connectors",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		return graph.NewNode(cfg.Name, spec, teeBehavior{rt: env.Runtime}), nil
	},
}
