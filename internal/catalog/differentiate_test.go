package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

func TestDifferentiateTracksPerInputIndex(t *testing.T) {
	rt := newTestRuntime()
	env := &graph.InitEnv{Runtime: rt}
	node, err := differentiateSpec.Create(differentiateSpec, &graph.NodeConfig{Name: "d"}, env)
	require.NoError(t, err)
	wireSingleOutput(rt, node)

	ev0a, _ := rt.Events.Create(&event.Data{Payload: 10})
	ev0a.InputIndex = 0
	node.HandleEvent(ev0a)
	require.Equal(t, int64(10), ev0a.Data.Payload)

	ev1a, _ := rt.Events.Create(&event.Data{Payload: 100})
	ev1a.InputIndex = 1
	node.HandleEvent(ev1a)
	require.Equal(t, int64(100), ev1a.Data.Payload, "a fresh input index starts from the configured initial value")

	ev0b, _ := rt.Events.Create(&event.Data{Payload: 15})
	ev0b.InputIndex = 0
	node.HandleEvent(ev0b)
	require.Equal(t, int64(5), ev0b.Data.Payload, "input 0's history is unaffected by input 1's traffic")
}
