package catalog

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

type integrateBehavior struct {
	rt    *graph.Runtime
	total int64
}

func (b *integrateBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	if len(n.Outputs) == 0 {
		b.rt.Events.Destroy(ev)
		return true
	}
	b.total += ev.Data.Payload
	ev.Data.Payload = b.total
	graph.Broadcast(b.rt, n, ev)
	return true
}

var integrateSpec = &graph.NodeSpecification{
	Name: "integrate",
	Documentation: "Calculates a running sum of previous event payloads and replaces with it the current one\nAccepts events on any connector\nSends events on all connectors" +
		"\nOption 'initial' (optional): the initial partial sum value",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		b := &integrateBehavior{rt: env.Runtime}
		if cs, ok := optConst(cfg, "initial"); ok {
			b.total = env.ResolveConstant(cs)
		}
		return graph.NewNode(cfg.Name, spec, b), nil
	},
}
