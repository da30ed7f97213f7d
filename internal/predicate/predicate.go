// Package predicate implements the registry-backed recursive predicate
// tree used by routing and gating nodes.
package predicate

import "github.com/vftdan/est-go/internal/event"

// Handle is a stable non-negative index into a Registry. Invalid (-1)
// means "absent".
type Handle int32

// Invalid is the sentinel handle meaning "absent/invalid".
const Invalid Handle = -1

// Result is the tri-state evaluation outcome.
type Result int

const (
	Disabled Result = iota
	Accepted
	Rejected
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "disabled"
	}
}

// Field names a numeric event field a range predicate reads.
type Field int

const (
	FieldCodeNamespace Field = iota
	FieldCodeMajor
	FieldCodeMinor
	FieldPayload
	FieldInputIndex
)

// Kind tags the variant of a Predicate.
type Kind int

const (
	KindAccept Kind = iota
	KindRange
	KindConjunction
	KindDisjunction
	KindModifierPresent
)

// Predicate is a tagged variant over the predicate kinds. Every predicate
// carries Enabled and Inverted regardless of Kind.
type Predicate struct {
	Kind     Kind
	Enabled  bool
	Inverted bool

	// KindRange
	RangeField Field
	Min, Max   int64

	// KindConjunction / KindDisjunction
	Children []Handle

	// KindModifierPresent
	Modifier int
}

// Registry is an append-only store of Predicate records, addressed by
// stable Handle. It is owned by an Engine for process lifetime; the only
// supported bulk operation is Reset.
type Registry struct {
	records []Predicate
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends p and returns its stable Handle.
func (r *Registry) Add(p Predicate) Handle {
	r.records = append(r.records, p)
	return Handle(len(r.records) - 1)
}

// Get returns the predicate at h and whether h is valid.
func (r *Registry) Get(h Handle) (Predicate, bool) {
	if h < 0 || int(h) >= len(r.records) {
		return Predicate{}, false
	}
	return r.records[h], true
}

// Set overwrites the predicate at h in place (used by the modify_predicate
// catalog node to mutate Enabled/Inverted without reallocating children).
func (r *Registry) Set(h Handle, p Predicate) bool {
	if h < 0 || int(h) >= len(r.records) {
		return false
	}
	r.records[h] = p
	return true
}

// Reset discards all predicates, invalidating every previously issued
// Handle. Intended only for test teardown between independent engines.
func (r *Registry) Reset() {
	r.records = r.records[:0]
}

// Len returns the number of registered predicates.
func (r *Registry) Len() int { return len(r.records) }

func fieldValue(f Field, ev *event.Event) int64 {
	switch f {
	case FieldCodeNamespace:
		return int64(ev.Data.Code.Namespace)
	case FieldCodeMajor:
		return int64(ev.Data.Code.Major)
	case FieldCodeMinor:
		return int64(ev.Data.Code.Minor)
	case FieldPayload:
		return ev.Data.Payload
	case FieldInputIndex:
		return int64(ev.InputIndex)
	default:
		return 0
	}
}

// MaxDepth bounds predicate tree recursion: a pathological configuration
// must not grow the native stack unboundedly. A tree deeper than this
// evaluates the offending subtree as Disabled.
const MaxDepth = 64

// Apply recursively evaluates the predicate at h against ev (which may be
// nil). Invalid handles and disabled predicates evaluate to Disabled;
// inversion is applied after aggregation, as a flip of the truth value
// rather than of each child.
func (r *Registry) Apply(h Handle, ev *event.Event) Result {
	return r.apply(h, ev, 0)
}

func (r *Registry) apply(h Handle, ev *event.Event, depth int) Result {
	if depth > MaxDepth {
		return Disabled
	}
	p, ok := r.Get(h)
	if !ok || !p.Enabled {
		return Disabled
	}

	var res Result
	switch p.Kind {
	case KindAccept:
		res = Accepted

	case KindRange:
		if ev == nil {
			return Disabled
		}
		v := fieldValue(p.RangeField, ev)
		if v >= p.Min && v <= p.Max {
			res = Accepted
		} else {
			res = Rejected
		}

	case KindModifierPresent:
		if ev == nil {
			return Disabled
		}
		if ev.Data.Modifiers.Has(p.Modifier) {
			res = Accepted
		} else {
			res = Rejected
		}

	case KindConjunction:
		res = r.applyAggregate(p.Children, ev, depth, Accepted, Rejected)

	case KindDisjunction:
		res = r.applyAggregate(p.Children, ev, depth, Rejected, Accepted)

	default:
		return Disabled
	}

	if p.Inverted {
		switch res {
		case Accepted:
			res = Rejected
		case Rejected:
			res = Accepted
		}
	}
	return res
}

// applyAggregate evaluates children in order, treating Disabled as the
// identity element, short-circuiting on shortCircuit, and starting the
// accumulator at start. If every child is Disabled the aggregate itself is
// Disabled.
func (r *Registry) applyAggregate(children []Handle, ev *event.Event, depth int, start, shortCircuit Result) Result {
	acc := start
	anyDecisive := false
	for _, c := range children {
		res := r.apply(c, ev, depth+1)
		if res == Disabled {
			continue
		}
		anyDecisive = true
		if res == shortCircuit {
			return shortCircuit
		}
		acc = res
	}
	if !anyDecisive {
		return Disabled
	}
	return acc
}
