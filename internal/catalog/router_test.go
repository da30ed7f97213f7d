package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/predicate"
)

func TestRouterSendsToAcceptingOutputsOnly(t *testing.T) {
	rt := &graph.Runtime{Events: event.NewList(), Predicates: predicate.NewRegistry()}

	lowPred := rt.Predicates.Add(predicate.Predicate{Kind: predicate.KindRange, Enabled: true, RangeField: predicate.FieldPayload, Min: 0, Max: 10})
	highPred := rt.Predicates.Add(predicate.Predicate{Kind: predicate.KindRange, Enabled: true, RangeField: predicate.FieldPayload, Min: 11, Max: 100})

	env := &graph.InitEnv{Runtime: rt}
	cfg := &graph.NodeConfig{Name: "r", Options: map[string]any{
		"predicates": []predicate.Handle{lowPred, highPred},
	}}
	node, err := routerSpec.Create(routerSpec, cfg, env)
	require.NoError(t, err)

	outLow := graph.NewChannel(rt, node, 0, nil, 0)
	outHigh := graph.NewChannel(rt, node, 1, nil, 0)
	_ = outLow
	_ = outHigh

	ev, _ := rt.Events.Create(&event.Data{Payload: 5})
	node.HandleEvent(ev)

	require.Equal(t, 1, rt.Events.Len())
	only := rt.Events.Front()
	require.Same(t, outLow, only.Position)
}

func TestRouterDestroysOriginalAlways(t *testing.T) {
	rt := &graph.Runtime{Events: event.NewList(), Predicates: predicate.NewRegistry()}
	env := &graph.InitEnv{Runtime: rt}
	node, err := routerSpec.Create(routerSpec, &graph.NodeConfig{Name: "r", Options: map[string]any{
		"predicates": []predicate.Handle{},
	}}, env)
	require.NoError(t, err)

	ev, _ := rt.Events.Create(&event.Data{Payload: 1})
	node.HandleEvent(ev)

	require.Equal(t, 0, rt.Events.Len())
}
