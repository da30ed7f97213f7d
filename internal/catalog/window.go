package catalog

import (
	"github.com/vftdan/est-go/internal/delay"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/modset"
	"github.com/vftdan/est-go/internal/timeutil"
)

// windowBehavior buffers events and, once a length or time-span threshold
// is met, emits an optional terminator followed by a replay of the
// remaining buffer, then skips ahead by one step (sliding) or the whole
// buffer (jumping). Buffered entries are stored as detached event.Data
// snapshots rather than live Event/hash-set pairs: nothing about the
// threshold/replay logic depends on object identity once the snapshot is
// taken.
type windowBehavior struct {
	rt *graph.Runtime

	hasTerminator bool
	terminator    event.Data

	isJumping      bool
	additionalStep int

	hasMaxTime bool
	maxTime    timeutil.RelativeTime

	hasMaxLength bool
	maxLength    int

	skipNext int
	buffer   []event.Data

	hasPendingDelay bool
	pendingDelay    delay.Handle
}

func (b *windowBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	newTime := ev.Data.Time

	if b.hasMaxTime {
		for len(b.buffer) > 0 {
			delta := newTime.SubAbsolute(b.buffer[0].Time)
			if delta.Compare(b.maxTime) <= 0 {
				break
			}
			b.triggerNewWindow(n, newTime)
		}
	}

	if b.skipNext > 0 {
		b.skipNext--
		b.rt.Events.Destroy(ev)
		return true
	}

	if b.rt.Events.Replicate(ev, 1) == 1 {
		forwarded := b.rt.Events.Next(ev)
		graph.Broadcast(b.rt, n, forwarded)
	}

	snapshot := ev.Data
	snapshot.Modifiers = ev.Data.Modifiers.Copy()
	b.buffer = append(b.buffer, snapshot)

	if b.hasMaxLength {
		for len(b.buffer) >= b.maxLength {
			b.triggerNewWindow(n, newTime)
		}
	}

	b.rescheduleExpiry(n)

	b.rt.Events.Destroy(ev)
	n.SetWaiting(true)
	return true
}

// triggerNewWindow fires a window boundary: the terminator (if any) rides
// on triggeringTime rather than any buffered entry's own time, matching
// how the terminator is built from a replica of the event that crossed
// the threshold, not from the oldest buffered entry.
func (b *windowBehavior) triggerNewWindow(n *graph.Node, triggeringTime timeutil.AbsoluteTime) {
	if b.hasTerminator {
		data := b.terminator
		data.Modifiers = b.terminator.Modifiers.Copy()
		data.Time = triggeringTime
		if term, ok := b.rt.Events.Create(&data); ok {
			graph.Broadcast(b.rt, n, term)
		}
	}

	step := 1
	if b.isJumping {
		step = len(b.buffer)
	}
	step += b.additionalStep
	if step < 1 {
		step = 1
	}
	if step > len(b.buffer) {
		step = len(b.buffer)
	}
	b.buffer = b.buffer[step:]
	b.skipNext += step

	for _, stored := range b.buffer {
		data := stored
		data.Modifiers = stored.Modifiers.Copy()
		if replica, ok := b.rt.Events.Create(&data); ok {
			graph.Broadcast(b.rt, n, replica)
		}
	}
}

// expireDueWindow is the delay list's callback target: it lets a window
// close purely from wall-clock time passing, without waiting for another
// event to arrive and trip the check at the top of HandleEvent. Without
// this, max_milliseconds only ever got re-checked on the next arrival, so
// a window sitting at the tail of a quiet graph would buffer forever.
func (b *windowBehavior) expireDueWindow(n *graph.Node) {
	b.hasPendingDelay = false
	if len(b.buffer) == 0 {
		return
	}
	b.triggerNewWindow(n, b.buffer[0].Time.Add(b.maxTime))
	b.rescheduleExpiry(n)
}

// rescheduleExpiry cancels any pending expiry delay and, if max_milliseconds
// is configured and the buffer is non-empty, schedules the next one against
// the oldest buffered entry.
func (b *windowBehavior) rescheduleExpiry(n *graph.Node) {
	if !b.hasMaxTime {
		return
	}
	if b.hasPendingDelay {
		b.rt.Delays.Cancel(b.pendingDelay)
		b.hasPendingDelay = false
	}
	if len(b.buffer) == 0 {
		return
	}
	fireAt := b.buffer[0].Time.Add(b.maxTime)
	b.pendingDelay = b.rt.Delays.Insert(fireAt, n, b, func(target event.Position, closure any) {
		closure.(*windowBehavior).expireDueWindow(target.(*graph.Node))
	})
	b.hasPendingDelay = true
}

func loadEventPrototype(env *graph.InitEnv, m map[string]any) event.Data {
	var proto event.Data
	proto.Priority = 10
	proto.Modifiers = modset.New()
	if cs, ok := m["namespace"].(graph.ConstSetting); ok {
		proto.Code.Namespace = uint32(env.ResolveConstant(cs))
	}
	if cs, ok := m["major"].(graph.ConstSetting); ok {
		proto.Code.Major = uint16(env.ResolveConstant(cs))
	}
	if cs, ok := m["minor"].(graph.ConstSetting); ok {
		proto.Code.Minor = uint16(env.ResolveConstant(cs))
	}
	if cs, ok := m["payload"].(graph.ConstSetting); ok {
		proto.Payload = env.ResolveConstant(cs)
	}
	return proto
}

var windowSpec = &graph.NodeSpecification{
	Name: "window",
	Documentation: "Passes events through while copying them into an internal buffer; when the length or time-span threshold is met, optionally emits a terminator, retransmits the remaining buffered events, and skips ahead by a step\n" +
		"Accepts events on any connector\nSends events on all connectors" +
		"\nOption 'is_jumping' (optional): whether to send events at most once" +
		"\nOption 'additional_step' (optional): additional step relative to a regular sliding/jumping window" +
		"\nOption 'max_length' (optional): maximum number of events in a window" +
		"\nOption 'max_milliseconds' (optional): maximum milliseconds between the first and the last event in a window" +
		"\nOption 'terminator' (optional): event to send after the window fullness condition is met",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		b := &windowBehavior{rt: env.Runtime}

		if cs, ok := optConst(cfg, "is_jumping"); ok {
			b.isJumping = env.ResolveConstant(cs) != 0
		}
		if cs, ok := optConst(cfg, "additional_step"); ok {
			if v := env.ResolveConstant(cs); v > 0 {
				b.additionalStep = int(v)
			}
		}
		if cs, ok := optConst(cfg, "max_length"); ok {
			v := env.ResolveConstant(cs)
			if v > 0 {
				b.hasMaxLength = true
				b.maxLength = int(v)
			}
		}
		if cs, ok := optConst(cfg, "max_milliseconds"); ok {
			v := env.ResolveConstant(cs)
			if v < 0 {
				v = 0
			}
			b.hasMaxTime = true
			b.maxTime = timeutil.RelativeTimeFromMillis(v)
		}
		if m, ok := optMap(cfg, "terminator"); ok {
			b.hasTerminator = true
			b.terminator = loadEventPrototype(env, m)
		}

		return graph.NewNode(cfg.Name, spec, b), nil
	},
}
