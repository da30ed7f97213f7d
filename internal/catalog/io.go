package catalog

import (
	"fmt"

	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

// DeviceIO abstracts the host-specific syscalls an evdev/uinput node would
// perform, so node construction and the registration contract are testable
// without real `/dev/input` or `/dev/uinput` devices. No concrete
// implementation of this interface talking to a real device is provided by
// this repository.
type DeviceIO interface {
	// Open returns a file descriptor representing the device, or an error.
	Open(path string) (fd int, err error)
	// Close releases a file descriptor returned by Open.
	Close(fd int) error
}

type evdevNode struct {
	path string
	io   DeviceIO
	fd   int
}

var evdevSpec = &graph.NodeSpecification{
	Name:          "evdev",
	Documentation: "Opens a /dev/input device through catalog.DeviceIO at I/O registration time. No events are read from the device and none are emitted.",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		path, ok := optString(cfg, "path")
		if !ok || path == "" {
			return nil, fmt.Errorf("catalog: evdev node %q: missing required option 'path'", cfg.Name)
		}
		io, _ := cfg.Options["device_io"].(DeviceIO)
		if io == nil {
			return nil, fmt.Errorf("catalog: evdev node %q: no DeviceIO provided", cfg.Name)
		}
		node := graph.NewNode(cfg.Name, spec, passthroughBehavior{})
		node.IOState = &evdevNode{path: path, io: io, fd: -1}
		return node, nil
	},
	RegisterIO: func(spec *graph.NodeSpecification, n *graph.Node, rt *graph.Runtime) error {
		state, _ := n.IOState.(*evdevNode)
		if state == nil {
			return fmt.Errorf("catalog: evdev node %q has no I/O state", n.Name)
		}
		fd, err := state.io.Open(state.path)
		if err != nil {
			return fmt.Errorf("catalog: evdev node %q: open %q: %w", n.Name, state.path, err)
		}
		state.fd = fd
		return nil
	},
}

type uinputNode struct {
	path string
	io   DeviceIO
	fd   int
}

// uinputBehavior is a sink: events that reach it are destroyed rather than
// broadcast onward. Nothing is written to the device; DeviceIO has no
// write operation.
type uinputBehavior struct {
	rt    *graph.Runtime
	state *uinputNode
}

func (b uinputBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	b.rt.Events.Destroy(ev)
	return true
}

var uinputSpec = &graph.NodeSpecification{
	Name:          "uinput",
	Documentation: "Opens a /dev/uinput virtual device through catalog.DeviceIO at I/O registration time and discards received events; nothing is written to the device.",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		path, ok := optString(cfg, "path")
		if !ok || path == "" {
			return nil, fmt.Errorf("catalog: uinput node %q: missing required option 'path'", cfg.Name)
		}
		io, _ := cfg.Options["device_io"].(DeviceIO)
		if io == nil {
			return nil, fmt.Errorf("catalog: uinput node %q: no DeviceIO provided", cfg.Name)
		}
		state := &uinputNode{path: path, io: io, fd: -1}
		node := graph.NewNode(cfg.Name, spec, uinputBehavior{rt: env.Runtime, state: state})
		node.IOState = state
		return node, nil
	},
	RegisterIO: func(spec *graph.NodeSpecification, n *graph.Node, rt *graph.Runtime) error {
		state, _ := n.IOState.(*uinputNode)
		if state == nil {
			return fmt.Errorf("catalog: uinput node %q has no I/O state", n.Name)
		}
		fd, err := state.io.Open(state.path)
		if err != nil {
			return fmt.Errorf("catalog: uinput node %q: open %q: %w", n.Name, state.path, err)
		}
		state.fd = fd
		return nil
	},
}

// passthroughBehavior is used by the source node types (getchar, evdev),
// which do not accept events. HandleEvent leaves an event that reaches
// such a node where it is and returns false.
type passthroughBehavior struct{}

func (passthroughBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool { return false }
