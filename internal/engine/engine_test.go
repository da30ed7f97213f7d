package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/obslog"
	"github.com/vftdan/est-go/internal/timeutil"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := &Engine{
		Runtime: &graph.Runtime{Events: event.NewList()},
		Log:     obslog.Discard(),
		Clock:   func() timeutil.AbsoluteTime { return timeutil.AbsoluteTime{Sec: 1000} },
	}
	return e
}

type sinkBehavior struct {
	events *event.List
	order  *[]int64
}

func (b sinkBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	*b.order = append(*b.order, ev.Data.Payload)
	b.events.Destroy(ev) // consumed
	return false
}

func TestPriorityLayeringOrder(t *testing.T) {
	e := newTestEngine(t)
	var order []int64
	sink := graph.NewNode("sink", nil, sinkBehavior{events: e.Runtime.Events, order: &order})

	now := e.Clock()
	for _, pv := range []struct{ p int32; payload int64 }{
		{1, 100}, {5, 500}, {3, 300},
	} {
		ev, _ := e.Runtime.Events.Create(&event.Data{Time: now, Priority: pv.p, Payload: pv.payload})
		ev.Position = sink
	}

	e.processEventsUntil(now)
	require.Equal(t, []int64{500, 300, 100}, order)
}

// destroyingBehavior consumes the event by destroying it outright.
type destroyingBehavior struct {
	events *event.List
	order  *[]int64
}

func (b destroyingBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	*b.order = append(*b.order, ev.Data.Payload)
	b.events.Destroy(ev)
	return true // destruction invalidates the walk
}

// A rewind must hand control straight back to the caller rather than
// draining the whole list within one processEventsUntil call, so that
// ProcessIteration's outer loop gets a chance to fire due delays and poll
// I/O between each destroyed event. This mirrors a single call each time
// around a driving loop, the way ProcessIteration itself drives it.
func TestRewindReturnsControlToCaller(t *testing.T) {
	e := newTestEngine(t)
	var order []int64
	node := graph.NewNode("n", nil, destroyingBehavior{events: e.Runtime.Events, order: &order})

	now := e.Clock()
	for i := 0; i < 4; i++ {
		ev, _ := e.Runtime.Events.Create(&event.Data{Time: now, Priority: 1, Payload: int64(i)})
		ev.Position = node
	}

	for i := 0; i < 4; i++ {
		workDone := e.processEventsUntil(now)
		require.Truef(t, workDone, "call %d should have handled exactly one event before returning", i)
		require.Equal(t, 3-i, e.Runtime.Events.Len())
	}

	require.Len(t, order, 4)
	require.False(t, e.processEventsUntil(now), "no events remain, so a further call does no work")
}

func TestFutureEventsAreNotProcessed(t *testing.T) {
	e := newTestEngine(t)
	var order []int64
	sink := graph.NewNode("sink", nil, sinkBehavior{events: e.Runtime.Events, order: &order})

	now := e.Clock()
	future := now.Add(timeutil.NewRelativeTime(10, 0))

	evNow, _ := e.Runtime.Events.Create(&event.Data{Time: now, Payload: 1})
	evNow.Position = sink
	evFuture, _ := e.Runtime.Events.Create(&event.Data{Time: future, Payload: 2})
	evFuture.Position = sink

	e.processEventsUntil(now)
	require.Equal(t, []int64{1}, order)
	require.Equal(t, 1, e.Runtime.Events.Len())
	require.True(t, e.hasFutureEvents)
}

func TestWaitingGateSkipsEvent(t *testing.T) {
	e := newTestEngine(t)
	var order []int64
	sink := graph.NewNode("sink", nil, sinkBehavior{events: e.Runtime.Events, order: &order})
	sink.SetWaiting(true)

	now := e.Clock()
	ev, _ := e.Runtime.Events.Create(&event.Data{Time: now, Payload: 1})
	ev.Position = sink

	workDone := e.processEventsUntil(now)
	require.False(t, workDone)
	require.Empty(t, order)
}
