package config

import (
	"fmt"
	"math"

	"github.com/vftdan/est-go/internal/predicate"
)

func parsePredicateType(name string) (predicate.Kind, bool) {
	switch name {
	case "accept":
		return predicate.KindAccept, true
	case "code_ns":
		return predicate.KindRange, true
	case "code_major":
		return predicate.KindRange, true
	case "code_minor":
		return predicate.KindRange, true
	case "payload":
		return predicate.KindRange, true
	case "input_index":
		return predicate.KindRange, true
	case "conjunction", "and":
		return predicate.KindConjunction, true
	case "disjunction", "or":
		return predicate.KindDisjunction, true
	case "modifier":
		return predicate.KindModifierPresent, true
	default:
		return 0, false
	}
}

func parsePredicateField(typeName string) predicate.Field {
	switch typeName {
	case "code_ns":
		return predicate.FieldCodeNamespace
	case "code_major":
		return predicate.FieldCodeMajor
	case "code_minor":
		return predicate.FieldCodeMinor
	case "input_index":
		return predicate.FieldInputIndex
	default:
		return predicate.FieldPayload
	}
}

// buildPredicates registers every [[predicates]] entry into reg, resolving
// Children by name in a second pass so forward references work, and
// returns the name-to-handle table Build uses to resolve predicate-valued
// node options.
func buildPredicates(defs []PredicateConfig, reg *predicate.Registry) (map[string]predicate.Handle, error) {
	names := make(map[string]predicate.Handle, len(defs))
	handles := make([]predicate.Handle, len(defs))

	for i, d := range defs {
		kind, ok := parsePredicateType(d.Type)
		if !ok {
			return nil, fmt.Errorf("config: predicate %d: unknown type %q", i, d.Type)
		}
		p := predicate.Predicate{
			Kind:     kind,
			Enabled:  true,
			Inverted: d.Inverted,
			Min:      math.MinInt64,
			Max:      math.MaxInt64,
			Modifier: d.Modifier,
		}
		if d.Enabled != nil {
			p.Enabled = *d.Enabled
		}
		if kind == predicate.KindRange {
			p.RangeField = parsePredicateField(d.Type)
			if d.Field != "" {
				p.RangeField = parsePredicateField(d.Field)
			}
			if d.Min != nil {
				p.Min = *d.Min
			}
			if d.Max != nil {
				p.Max = *d.Max
			}
		}
		h := reg.Add(p)
		handles[i] = h
		if d.Name != "" {
			if _, dup := names[d.Name]; dup {
				return nil, fmt.Errorf("config: duplicate predicate name %q", d.Name)
			}
			names[d.Name] = h
		}
	}

	for i, d := range defs {
		if len(d.Children) == 0 {
			continue
		}
		p, _ := reg.Get(handles[i])
		children := make([]predicate.Handle, 0, len(d.Children))
		for _, childName := range d.Children {
			ch, ok := names[childName]
			if !ok {
				return nil, fmt.Errorf("config: predicate %d: unknown child %q", i, childName)
			}
			children = append(children, ch)
		}
		p.Children = children
		reg.Set(handles[i], p)
	}

	return names, nil
}
