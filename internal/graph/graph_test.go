package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/delay"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/predicate"
)

func newRuntime() *Runtime {
	return &Runtime{
		Events:     event.NewList(),
		Predicates: predicate.NewRegistry(),
		Delays:     delay.NewList(),
	}
}

// recordingBehavior counts handled events; it does not destroy them.
type recordingBehavior struct {
	count int
}

func (b *recordingBehavior) HandleEvent(n *Node, ev *event.Event) bool {
	b.count++
	return true // the test driver owns destruction via its own Events list
}

// TestChannelTTLChainLength walks an a -> b -> a loop: an event with
// initial TTL t is delivered to a node iff t exceeds the number of
// channel hops so far, and each hop decrements TTL by one.
func TestChannelTTLChainLength(t *testing.T) {
	rt := newRuntime()

	aHits, bHits := 0, 0
	a := NewNode("a", nil, behaviorFunc(func(n *Node, ev *event.Event) bool {
		aHits++
		ev.Position = n.Outputs[0]
		return false
	}))
	b := NewNode("b", nil, behaviorFunc(func(n *Node, ev *event.Event) bool {
		bHits++
		ev.Position = n.Outputs[0]
		return false
	}))

	chAB := NewChannel(rt, a, 0, b, 0)
	chBA := NewChannel(rt, b, 0, a, 0)
	a.SetOutput(0, chAB)
	b.SetOutput(0, chBA)

	ev, _ := rt.Events.Create(&event.Data{TTL: 3})
	ev.Position = a

	// drive the event manually through positions until it is destroyed
	for i := 0; i < 10 && rt.Events.Len() > 0; i++ {
		ev.Position.HandleEvent(ev)
	}

	require.Equal(t, 2, aHits) // a runs twice
	require.Equal(t, 1, bHits) // b runs once
	require.Equal(t, 0, rt.Events.Len())
}

type behaviorFunc func(n *Node, ev *event.Event) bool

func (f behaviorFunc) HandleEvent(n *Node, ev *event.Event) bool { return f(n, ev) }

func TestChannelDestroysOnTTLZero(t *testing.T) {
	rt := newRuntime()
	end := NewNode("end", nil, &recordingBehavior{})
	ch := NewChannel(rt, nil, 0, end, 0)

	ev, _ := rt.Events.Create(&event.Data{TTL: 1})
	rewind := ch.HandleEvent(ev)
	require.True(t, rewind)
	require.Equal(t, 0, rt.Events.Len())
}

func TestChannelRetargetsAndClearsWaiting(t *testing.T) {
	rt := newRuntime()
	end := NewNode("end", nil, &recordingBehavior{})
	end.SetWaiting(true)
	ch := NewChannel(rt, nil, 0, end, 2)

	ev, _ := rt.Events.Create(&event.Data{TTL: 5})
	rewind := ch.HandleEvent(ev)
	require.False(t, rewind)
	require.Same(t, end, ev.Position)
	require.Equal(t, 2, ev.InputIndex)
	require.False(t, end.Waiting())
	require.Equal(t, uint32(4), ev.Data.TTL)
}

func TestChannelWithNilEndDestroys(t *testing.T) {
	rt := newRuntime()
	ch := NewChannel(rt, nil, 0, nil, 0)
	ev, _ := rt.Events.Create(&event.Data{TTL: 9})
	rewind := ch.HandleEvent(ev)
	require.True(t, rewind)
	require.Equal(t, 0, rt.Events.Len())
}

func TestBroadcastZeroOutputsDestroys(t *testing.T) {
	rt := newRuntime()
	n := NewNode("tee", nil, &recordingBehavior{})
	ev, _ := rt.Events.Create(&event.Data{})
	Broadcast(rt, n, ev)
	require.Equal(t, 0, rt.Events.Len())
}

func TestBroadcastCountMatchesOutputs(t *testing.T) {
	rt := newRuntime()
	n := NewNode("tee", nil, &recordingBehavior{})
	a := NewNode("a", nil, &recordingBehavior{})
	b := NewNode("b", nil, &recordingBehavior{})
	c0 := NewChannel(rt, n, 0, a, 0)
	c1 := NewChannel(rt, n, 1, b, 0)

	ev, _ := rt.Events.Create(&event.Data{Payload: 42})
	Broadcast(rt, n, ev)

	require.Equal(t, 2, rt.Events.Len())
	var positions []event.Position
	for e := rt.Events.Front(); e != nil; e = rt.Events.Next(e) {
		positions = append(positions, e.Position)
	}
	require.ElementsMatch(t, []event.Position{c0, c1}, positions)
}

func TestBroadcastDestroysReplicasWithNoChannel(t *testing.T) {
	rt := newRuntime()
	n := NewNode("tee", nil, &recordingBehavior{})
	a := NewNode("a", nil, &recordingBehavior{})
	n.SetOutput(0, NewChannel(rt, n, 0, a, 0))
	n.SetOutput(2, nil) // grows slots but leaves slot 1 and 2 empty/nil

	ev, _ := rt.Events.Create(&event.Data{})
	Broadcast(rt, n, ev)
	require.Equal(t, 1, rt.Events.Len())
}

func TestSetInputOrphansPreviousChannel(t *testing.T) {
	rt := newRuntime()
	a := NewNode("a", nil, &recordingBehavior{})
	b := NewNode("b", nil, &recordingBehavior{})
	first := NewChannel(rt, nil, 0, a, 0)
	second := NewChannel(rt, nil, 0, b, 0)

	a.SetInput(0, second)
	require.Nil(t, first.End)
	require.Same(t, second, a.Inputs[0])
}
