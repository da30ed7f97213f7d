//go:build !linux

package catalog

import (
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/iomux"
)

type getcharNode struct {
	rt        *graph.Runtime
	namespace int64
}

var getcharSpec = &graph.NodeSpecification{
	Name:          "getchar",
	Documentation: "Reads one byte from standard input per readiness notification and emits it as an event on every output connector. Unavailable on this platform.",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		g := &getcharNode{rt: env.Runtime}
		if cs, ok := optConst(cfg, "namespace"); ok {
			g.namespace = env.ResolveConstant(cs)
		}
		node := graph.NewNode(cfg.Name, spec, passthroughBehavior{})
		node.IOState = g
		return node, nil
	},
	RegisterIO: func(spec *graph.NodeSpecification, n *graph.Node, rt *graph.Runtime) error {
		return iomux.ErrUnsupportedPlatform
	},
}
