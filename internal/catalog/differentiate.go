package catalog

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

// differentiateBehavior keeps one previous-value slot per input connector
// index rather than a single shared slot, so a differencing node shared by
// several independent input sources keeps independent history per source
// instead of mixing their deltas together.
type differentiateBehavior struct {
	rt      *graph.Runtime
	initial int64
	previous map[int]int64
}

func (b *differentiateBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	if len(n.Outputs) == 0 {
		b.rt.Events.Destroy(ev)
		return true
	}
	prev, ok := b.previous[ev.InputIndex]
	if !ok {
		prev = b.initial
	}
	current := ev.Data.Payload
	ev.Data.Payload = current - prev
	b.previous[ev.InputIndex] = current
	graph.Broadcast(b.rt, n, ev)
	return true
}

var differentiateSpec = &graph.NodeSpecification{
	Name: "differentiate",
	Documentation: "Subtracts the previous event payload (tracked per input connector) from the current one\nAccepts events on any connector\nSends events on all connectors" +
		"\nOption 'initial' (optional): the value to subtract from each connector's first event payload",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		b := &differentiateBehavior{rt: env.Runtime, previous: make(map[int]int64)}
		if cs, ok := optConst(cfg, "initial"); ok {
			b.initial = env.ResolveConstant(cs)
		}
		return graph.NewNode(cfg.Name, spec, b), nil
	},
}
