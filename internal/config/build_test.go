package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

func newTestRuntime() *graph.Runtime {
	return &graph.Runtime{Events: event.NewList()}
}

func TestBuildWiresNodesAndChannels(t *testing.T) {
	doc := &Document{
		Nodes: []NodeConfig{
			{Name: "src", Type: "tee"},
			{Name: "scaler", Type: "scale", Options: map[string]any{
				"numerator":   int64(2),
				"denominator": int64(1),
			}},
		},
		Channels: []ChannelConfig{
			{FromNode: "src", FromIndex: 0, ToNode: "scaler", ToIndex: 0},
		},
	}

	rt := newTestRuntime()
	g, err := Build(doc, rt)
	require.NoError(t, err)
	require.Len(t, g.Channels, 1)

	src, ok := g.Node("src")
	require.True(t, ok)
	scaler, ok := g.Node("scaler")
	require.True(t, ok)
	require.Same(t, g.Channels[0], src.Outputs[0])
	require.Same(t, g.Channels[0], scaler.Inputs[0])
}

func TestBuildRejectsUnknownNodeType(t *testing.T) {
	doc := &Document{Nodes: []NodeConfig{{Name: "n", Type: "does_not_exist"}}}
	_, err := Build(doc, newTestRuntime())
	require.Error(t, err)
}

func TestBuildResolvesNamedConstants(t *testing.T) {
	doc := &Document{
		Constants: map[string]int64{"MY_NAMESPACE": 7},
		Nodes: []NodeConfig{
			{Name: "a", Type: "assign", Options: map[string]any{
				"namespace": "MY_NAMESPACE",
			}},
		},
	}
	rt := newTestRuntime()
	g, err := Build(doc, rt)
	require.NoError(t, err)

	a, _ := g.Node("a")
	graph.NewChannel(rt, a, 0, nil, 0)
	ev, _ := rt.Events.Create(&event.Data{})
	a.HandleEvent(ev)
	require.Equal(t, uint32(7), ev.Data.Code.Namespace)
}

func TestBuildWiresPredicatesIntoRouter(t *testing.T) {
	doc := &Document{
		Predicates: []PredicateConfig{
			{Name: "always", Type: "accept"},
		},
		Nodes: []NodeConfig{
			{Name: "r", Type: "router", Options: map[string]any{
				"predicates": []any{"always"},
			}},
		},
	}
	rt := newTestRuntime()
	g, err := Build(doc, rt)
	require.NoError(t, err)

	r, _ := g.Node("r")
	graph.NewChannel(rt, r, 0, nil, 0)
	ev, _ := rt.Events.Create(&event.Data{})
	r.HandleEvent(ev)
	require.Equal(t, 1, rt.Events.Len(), "accepted predicate should route one replica onward")
}
