package catalog

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

type assignBehavior struct {
	rt *graph.Runtime

	hasNamespace, hasMajor, hasMinor, hasPayload bool
	namespace, major, minor                      int64
	payload                                       int64
}

func (b assignBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	if len(n.Outputs) == 0 {
		b.rt.Events.Destroy(ev)
		return true
	}
	if b.hasNamespace {
		ev.Data.Code.Namespace = uint32(b.namespace)
	}
	if b.hasMajor {
		ev.Data.Code.Major = uint16(b.major)
	}
	if b.hasMinor {
		ev.Data.Code.Minor = uint16(b.minor)
	}
	if b.hasPayload {
		ev.Data.Payload = b.payload
	}
	graph.Broadcast(b.rt, n, ev)
	return true
}

var assignSpec = &graph.NodeSpecification{
	Name: "assign",
	Documentation: "Assigns field(s) in an event\nAccepts events on any connector\nSends events on all connectors" +
		"\nOption 'namespace' (optional): new event code namespace" +
		"\nOption 'major' (optional): new event code major" +
		"\nOption 'minor' (optional): new event code minor" +
		"\nOption 'payload' (optional): new event payload",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		b := assignBehavior{rt: env.Runtime}
		if cs, ok := optConst(cfg, "namespace"); ok {
			b.hasNamespace = true
			b.namespace = env.ResolveConstant(cs)
		}
		if cs, ok := optConst(cfg, "major"); ok {
			b.hasMajor = true
			b.major = env.ResolveConstant(cs)
		}
		if cs, ok := optConst(cfg, "minor"); ok {
			b.hasMinor = true
			b.minor = env.ResolveConstant(cs)
		}
		if cs, ok := optConst(cfg, "payload"); ok {
			b.hasPayload = true
			b.payload = env.ResolveConstant(cs)
		}
		return graph.NewNode(cfg.Name, spec, b), nil
	},
}
