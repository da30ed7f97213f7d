package catalog

import (
	"fmt"

	"github.com/vftdan/est-go/internal/engine"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/modset"
)

// ModifierOp is the bitwise operation this node applies to an event's
// modifier set.
type ModifierOp int

const (
	ModifierOpSet ModifierOp = iota
	ModifierOpUnset
	ModifierOpToggle
)

func parseModifierOp(name string) (ModifierOp, bool) {
	switch name {
	case "set":
		return ModifierOpSet, true
	case "unset", "reset":
		return ModifierOpUnset, true
	case "toggle":
		return ModifierOpToggle, true
	default:
		return 0, false
	}
}

type modifiersBehavior struct {
	rt        *graph.Runtime
	modifiers modset.Set
	op        ModifierOp
}

func (b modifiersBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	if len(n.Outputs) == 0 {
		b.rt.Events.Destroy(ev)
		return true
	}
	switch b.op {
	case ModifierOpSet:
		ev.Data.Modifiers.SetFrom(b.modifiers)
	case ModifierOpUnset:
		ev.Data.Modifiers.UnsetFrom(b.modifiers)
	case ModifierOpToggle:
		ev.Data.Modifiers.ToggleFrom(b.modifiers)
	}
	graph.Broadcast(b.rt, n, ev)
	return true
}

var modifiersSpec = &graph.NodeSpecification{
	Name:          "modifiers",
	Documentation: "Applies a bitwise set/unset/toggle operation between an event's modifier set and a configured modifier set.",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		opName, _ := optString(cfg, "operation")
		op, ok := parseModifierOp(opName)
		if !ok {
			return nil, fmt.Errorf("catalog: modifiers node %q: unknown operation %q", cfg.Name, opName)
		}

		set := modset.New()
		mods, _ := optConstSlice(cfg, "modifiers")
		for _, cs := range mods {
			v := env.ResolveConstantOr(cs, -1)
			if v < 0 || v > modset.Max {
				return nil, fmt.Errorf("catalog: modifiers node %q: %w: %d", cfg.Name, engine.ErrModifierOutOfRange, v)
			}
			set.Set(int(v))
		}

		return graph.NewNode(cfg.Name, spec, modifiersBehavior{rt: env.Runtime, modifiers: set, op: op}), nil
	},
}
