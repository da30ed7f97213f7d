package catalog

import (
	"fmt"

	"github.com/vftdan/est-go/internal/engine"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/predicate"
)

// modifyPredicateBehavior flips a target predicate's Enabled/Inverted
// flags in response to trigger predicates. It never forwards events.
type modifyPredicateBehavior struct {
	rt        *graph.Runtime
	target    predicate.Handle
	enableOn  predicate.Handle
	disableOn predicate.Handle
	invertOn  predicate.Handle
	uninvertOn predicate.Handle
}

func (b modifyPredicateBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	reg := b.rt.Predicates

	targetState, _ := reg.Get(b.target)

	var shouldEnable, shouldDisable, shouldInvert, shouldUninvert bool
	if targetState.Enabled {
		shouldDisable = reg.Apply(b.disableOn, ev) == predicate.Accepted
	} else {
		shouldEnable = reg.Apply(b.enableOn, ev) == predicate.Accepted
	}
	if targetState.Inverted {
		shouldUninvert = reg.Apply(b.uninvertOn, ev) == predicate.Accepted
	} else {
		shouldInvert = reg.Apply(b.invertOn, ev) == predicate.Accepted
	}

	if shouldEnable {
		targetState.Enabled = true
	}
	if shouldDisable {
		targetState.Enabled = false
	}
	if shouldInvert {
		targetState.Inverted = true
	}
	if shouldUninvert {
		targetState.Inverted = false
	}
	reg.Set(b.target, targetState)

	b.rt.Events.Destroy(ev)
	return true
}

var modifyPredicateSpec = &graph.NodeSpecification{
	Name: "modify_predicate",
	Documentation: "Changes 'enabled' and 'inverted' flags of a predicate\nAccepts events on any connector\nDoes not send events" +
		"\nOption 'target' (required): the predicate to modify" +
		"\nOption 'enable_on' (optional): the predicate, satisfying events of which set 'enabled' flag of the target predicate to 1" +
		"\nOption 'disable_on' (optional): the predicate, satisfying events of which set 'enabled' flag of the target predicate to 0" +
		"\nOption 'invert_on' (optional): the predicate, satisfying events of which set 'inverted' flag of the target predicate to 1" +
		"\nOption 'uninvert_on' (optional): the predicate, satisfying events of which set 'inverted' flag of the target predicate to 0",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		target, ok := cfg.Options["target"].(predicate.Handle)
		if !ok {
			return nil, fmt.Errorf("catalog: modify_predicate node %q: missing required option 'target'", cfg.Name)
		}
		target = env.ResolvePredicate(target)
		if target == predicate.Invalid {
			return nil, fmt.Errorf("catalog: modify_predicate node %q: %w: %q", cfg.Name, engine.ErrUnknownPredicate, "target")
		}

		resolveOptional := func(key string) predicate.Handle {
			h, ok := cfg.Options[key].(predicate.Handle)
			if !ok {
				return predicate.Invalid
			}
			return env.ResolvePredicate(h)
		}

		return graph.NewNode(cfg.Name, spec, modifyPredicateBehavior{
			rt:         env.Runtime,
			target:     target,
			enableOn:   resolveOptional("enable_on"),
			disableOn:  resolveOptional("disable_on"),
			invertOn:   resolveOptional("invert_on"),
			uninvertOn: resolveOptional("uninvert_on"),
		}), nil
	},
}
