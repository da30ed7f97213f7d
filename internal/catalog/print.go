package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

// printBehavior is a diagnostic sink that dumps every field of an event,
// writing to an io.Writer instead of stdout directly so tests can capture
// output.
type printBehavior struct {
	rt *graph.Runtime
	w  io.Writer
}

func (b printBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	d := ev.Data
	fmt.Fprintf(b.w, "event from connector %d:\n", ev.InputIndex)
	fmt.Fprintf(b.w, "code.namespace = %d\n", d.Code.Namespace)
	fmt.Fprintf(b.w, "code.major = %d\n", d.Code.Major)
	fmt.Fprintf(b.w, "code.minor = %d\n", d.Code.Minor)
	fmt.Fprintf(b.w, "ttl = %d\n", d.TTL)
	fmt.Fprintf(b.w, "priority = %d\n", d.Priority)
	fmt.Fprintf(b.w, "payload = %d\n", d.Payload)
	fmt.Fprintf(b.w, "time.absolute = %d.%09d\n", d.Time.Sec, d.Time.Nsec)
	fmt.Fprintf(b.w, "---\n\n")
	b.rt.Events.Destroy(ev)
	return true
}

var printSpec = &graph.NodeSpecification{
	Name:          "print",
	Documentation: "Prints received events\nAccepts events on any connector\nDoes not send events",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		return graph.NewNode(cfg.Name, spec, printBehavior{rt: env.Runtime, w: os.Stdout}), nil
	},
}
