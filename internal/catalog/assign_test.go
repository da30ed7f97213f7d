package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

func TestAssignOverwritesConfiguredFields(t *testing.T) {
	rt := newTestRuntime()
	env := &graph.InitEnv{Runtime: rt}
	cfg := &graph.NodeConfig{Name: "a", Options: map[string]any{
		"major":   graph.Const(7),
		"payload": graph.Const(42),
	}}
	node, err := assignSpec.Create(assignSpec, cfg, env)
	require.NoError(t, err)
	wireSingleOutput(rt, node)

	ev, _ := rt.Events.Create(&event.Data{Code: event.Code{Namespace: 1, Major: 2, Minor: 3}, Payload: 1})
	node.HandleEvent(ev)

	require.Equal(t, uint32(1), ev.Data.Code.Namespace, "namespace untouched when option absent")
	require.Equal(t, uint16(7), ev.Data.Code.Major)
	require.Equal(t, uint16(3), ev.Data.Code.Minor, "minor untouched when option absent")
	require.Equal(t, int64(42), ev.Data.Payload)
}

func TestTeeBroadcastsUnchanged(t *testing.T) {
	rt := newTestRuntime()
	env := &graph.InitEnv{Runtime: rt}
	node, err := teeSpec.Create(teeSpec, &graph.NodeConfig{Name: "t"}, env)
	require.NoError(t, err)
	wireSingleOutput(rt, node)

	ev, _ := rt.Events.Create(&event.Data{Payload: 9})
	node.HandleEvent(ev)

	require.Equal(t, int64(9), ev.Data.Payload)
	require.Equal(t, 1, rt.Events.Len())
}
