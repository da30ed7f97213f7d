// Package graph implements the graph fabric: nodes and channels as
// uniform "event positions", including the TTL cycle-damping contract and
// the broadcast/replication primitive every transforming node uses to
// fan out.
package graph

import (
	"github.com/vftdan/est-go/internal/delay"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/iomux"
	"github.com/vftdan/est-go/internal/predicate"
)

// Runtime bundles the engine-owned singletons a node or channel needs to
// act on events: the event list, the predicate registry, the delayed
// callback list, and the I/O multiplexer. These are owned by one Engine
// handle rather than package globals, so a single binary can host multiple
// independent engines (useful for tests).
type Runtime struct {
	Events     *event.List
	Predicates *predicate.Registry
	Delays     *delay.List
	IO         *iomux.Multiplexer
}

// Behavior is the private per-type logic of a node, set by a
// NodeSpecification's Create function: Node itself carries only the
// uniform slot-array/lifecycle machinery, and Behavior supplies the
// type-specific handling.
type Behavior interface {
	HandleEvent(n *Node, ev *event.Event) (rewind bool)
}

// NodeSpecification is the type descriptor a node library registers with
// the engine.
type NodeSpecification struct {
	Name          string
	Documentation string

	Create func(spec *NodeSpecification, cfg *NodeConfig, env *InitEnv) (*Node, error)

	Destroy func(spec *NodeSpecification, n *Node)

	// RegisterIO is optional: most transformer node types never touch I/O.
	RegisterIO func(spec *NodeSpecification, n *Node, rt *Runtime) error
}

// Node contains input/output slot arrays (sparse, indexable by small
// integers), a back-reference to its NodeSpecification, and a Behavior
// holding private per-type state.
type Node struct {
	Name string
	Spec *NodeSpecification

	Inputs, Outputs []*Channel

	Behavior Behavior
	waiting  bool

	// IOState holds private state a RegisterIO callback needs after
	// construction (subscription handles, open file descriptors) but that
	// doesn't belong on Behavior, since plain transformer nodes never use
	// it. nil for every node type that doesn't touch I/O.
	IOState any
}

// NewNode constructs a bare Node; catalog Create functions use this as a
// base before attaching their own Behavior.
func NewNode(name string, spec *NodeSpecification, behavior Behavior) *Node {
	return &Node{Name: name, Spec: spec, Behavior: behavior}
}

// HandleEvent implements event.Position by delegating to Behavior.
func (n *Node) HandleEvent(ev *event.Event) bool {
	if n.Behavior == nil {
		return false
	}
	return n.Behavior.HandleEvent(n, ev)
}

// Waiting implements event.Position's waiting-new-event gate.
func (n *Node) Waiting() bool { return n.waiting }

// SetWaiting implements event.Position. Only the node that wishes to
// suspend sets this true; any event delivery to the position clears it
// (see Channel.HandleEvent).
func (n *Node) SetWaiting(w bool) { n.waiting = w }

func growSlots(slots []*Channel, i int) []*Channel {
	if i < len(slots) {
		return slots
	}
	grown := make([]*Channel, i+1)
	copy(grown, slots)
	return grown
}

// SetInput stores ch at input slot i, growing the slot array on demand.
// If the slot already held a channel whose End pointed at this node, that
// channel's End is cleared (orphaned) — the caller owns destroying it.
func (n *Node) SetInput(i int, ch *Channel) {
	n.Inputs = growSlots(n.Inputs, i)
	if old := n.Inputs[i]; old != nil && old.End == n {
		old.End = nil
	}
	n.Inputs[i] = ch
}

// SetOutput stores ch at output slot i, growing the slot array on demand,
// with the same orphaning behavior as SetInput.
func (n *Node) SetOutput(i int, ch *Channel) {
	n.Outputs = growSlots(n.Outputs, i)
	if old := n.Outputs[i]; old != nil && old.Start == n {
		old.Start = nil
	}
	n.Outputs[i] = ch
}

// Channel is a directed edge carrying (start, startIdx, end, endIdx) and
// is itself an event.Position.
type Channel struct {
	Start      *Node
	StartIndex int
	End        *Node
	EndIndex   int

	events *event.List
}

// NewChannel constructs a channel wired between start/startIdx and
// end/endIdx, registering itself into both endpoints' slot arrays, and
// returns it.
func NewChannel(rt *Runtime, start *Node, startIdx int, end *Node, endIdx int) *Channel {
	ch := &Channel{Start: start, StartIndex: startIdx, End: end, EndIndex: endIdx, events: rt.Events}
	if start != nil {
		start.SetOutput(startIdx, ch)
	}
	if end != nil {
		end.SetInput(endIdx, ch)
	}
	return ch
}

// HandleEvent implements the channel TTL/retarget contract: decrement
// TTL, destroy on exhaustion, otherwise retarget the event to End and
// clear End's waiting-new-event gate. Decrement-then-test-zero is
// sufficient here; a TTL=0 event is never created, so a pre-decrement
// zero check would be redundant.
func (c *Channel) HandleEvent(ev *event.Event) bool {
	ev.Data.TTL--
	if ev.Data.TTL == 0 {
		c.events.Destroy(ev)
		return true
	}
	if c.End == nil {
		c.events.Destroy(ev)
		return true
	}
	ev.Position = c.End
	ev.InputIndex = c.EndIndex
	c.End.SetWaiting(false)
	return false
}

// Waiting is always false: a channel is never itself a suspend point.
func (c *Channel) Waiting() bool { return false }

// SetWaiting is a no-op for channels.
func (c *Channel) SetWaiting(bool) {}

// Broadcast is the canonical transformer output pattern: replicate ev to
// match the number of outputs, then assign each copy
// (original first, then replicas in order) to a distinct output slot. A
// slot with no channel destroys its assigned replica. Transformers must
// mutate ev.Data before calling Broadcast so every output copy observes
// the post-transform data.
func Broadcast(rt *Runtime, n *Node, ev *event.Event) {
	k := len(n.Outputs)
	if k == 0 {
		rt.Events.Destroy(ev)
		return
	}

	copies := make([]*event.Event, 0, k)
	copies = append(copies, ev)
	if k > 1 {
		created := rt.Events.Replicate(ev, k-1)
		cur := ev
		for i := 0; i < created; i++ {
			cur = rt.Events.Next(cur)
			copies = append(copies, cur)
		}
	}

	for i, c := range copies {
		out := n.Outputs[i]
		if out == nil {
			rt.Events.Destroy(c)
			continue
		}
		c.Position = out
	}
}
