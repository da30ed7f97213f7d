//go:build linux

package catalog

import (
	"golang.org/x/sys/unix"

	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/iomux"
)

type getcharNode struct {
	rt        *graph.Runtime
	namespace int64
}

var getcharSpec = &graph.NodeSpecification{
	Name:          "getchar",
	Documentation: "Reads one byte from standard input per readiness notification and emits it as an event on every output connector.",
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
		g, _ := n.IOState.(*getcharNode)
		if g == nil {
			return nil
		}
		return rt.IO.Register(unix.Stdin, iomux.Read, iomux.Handling{
			Owner:   n,
			Enabled: true,
			Callback: func(owner event.Position, fd int, dir iomux.Direction) {
				readOneByte(rt, n, g, fd)
			},
		})
	},
}

// readOneByte handles one readiness notification: a short read (EOF)
// disables the subscription and emits a distinct "end of input" minor code
// instead of the byte value.
func readOneByte(rt *graph.Runtime, n *graph.Node, g *getcharNode, fd int) {
	var buf [1]byte
	count, err := unix.Read(fd, buf[:])
	if err != nil {
		return
	}

	data := event.Data{
		Code:     event.Code{Namespace: uint32(g.namespace), Major: 0, Minor: 1},
		TTL:      100,
		Priority: 10,
		Payload:  int64(buf[0]),
	}
	if count == 0 {
		data.Code.Minor = 2
		data.Payload = 0
		rt.IO.Disable(fd, iomux.Read)
	}

	for _, out := range n.Outputs {
		if out == nil {
			continue
		}
		d := data
		if ev, ok := rt.Events.Create(&d); ok {
			ev.Position = out
		}
	}
}
