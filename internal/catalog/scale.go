package catalog

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
)

// scaleBehavior multiplies an event's payload by numerator/denominator
// around center, optionally amortizing the integer-division rounding
// error into the next event (the `defect` accumulator) so a sustained
// stream of small values doesn't silently underflow to zero.
type scaleBehavior struct {
	rt *graph.Runtime

	numerator, denominator, center int64
	amortize                       bool
	defect                         int64
}

func (b *scaleBehavior) HandleEvent(n *graph.Node, ev *event.Event) bool {
	if len(n.Outputs) == 0 {
		b.rt.Events.Destroy(ev)
		return true
	}

	value := ev.Data.Payload
	value -= b.center
	value *= b.numerator
	if b.amortize {
		value += b.defect
	}
	if b.denominator != 0 {
		undivided := value
		value /= b.denominator
		b.defect = undivided - value*b.denominator
	}
	value += b.center
	ev.Data.Payload = value

	graph.Broadcast(b.rt, n, ev)
	return true
}

var scaleSpec = &graph.NodeSpecification{
	Name: "scale",
	Documentation: "Multiplies event payload by a constant fraction\nAccepts events on any connector\nSends events on all connectors" +
		"\nOption 'numerator' (optional): an integer to multiply by" +
		"\nOption 'denominator' (optional): an integer to divide by" +
		"\nOption 'center' (optional): an integer to scale around" +
		"\nOption 'amortize_rounding_error' (optional): whether to adjust the new event value by the rounding error of the previous event value",
	Create: func(spec *graph.NodeSpecification, cfg *graph.NodeConfig, env *graph.InitEnv) (*graph.Node, error) {
		b := &scaleBehavior{rt: env.Runtime, numerator: 1, denominator: 1, center: 0}
		if cs, ok := optConst(cfg, "numerator"); ok {
			b.numerator = env.ResolveConstantOr(cs, b.numerator)
		}
		if cs, ok := optConst(cfg, "denominator"); ok {
			b.denominator = env.ResolveConstantOr(cs, b.denominator)
		}
		if cs, ok := optConst(cfg, "center"); ok {
			b.center = env.ResolveConstantOr(cs, b.center)
		}
		if cs, ok := optConst(cfg, "amortize_rounding_error"); ok {
			b.amortize = env.ResolveConstant(cs) != 0
		}
		return graph.NewNode(cfg.Name, spec, b), nil
	},
}
