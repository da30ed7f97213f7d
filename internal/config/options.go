package config

import (
	"fmt"

	"github.com/vftdan/est-go/internal/engine"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/predicate"
)

// optionKind tags how a raw TOML-decoded option value is converted into
// the typed value a catalog node's Create function expects.
type optionKind int

const (
	kindConst optionKind = iota
	kindConstSlice
	kindString
	kindBool
	kindMap
	kindPredicate
	kindPredicateSlice
)

// nodeOptionSchemas lists, per builtin catalog node type, the conversion
// to apply to each named option. A type absent from this table (or an
// option key absent from its entry) is passed through unconverted — this
// only matters for custom node types registered outside the catalog
// package, which read their own raw TOML values directly.
var nodeOptionSchemas = map[string]map[string]optionKind{
	"assign": {
		"namespace": kindConst,
		"major":     kindConst,
		"minor":     kindConst,
		"payload":   kindConst,
	},
	"scale": {
		"numerator":               kindConst,
		"denominator":             kindConst,
		"center":                  kindConst,
		"amortize_rounding_error": kindConst,
	},
	"integrate":     {"initial": kindConst},
	"differentiate": {"initial": kindConst},
	"modifiers": {
		"operation": kindString,
		"modifiers": kindConstSlice,
	},
	"router": {"predicates": kindPredicateSlice},
	"modify_predicate": {
		"target":      kindPredicate,
		"enable_on":   kindPredicate,
		"disable_on":  kindPredicate,
		"invert_on":   kindPredicate,
		"uninvert_on": kindPredicate,
	},
	"window": {
		"is_jumping":       kindConst,
		"additional_step":  kindConst,
		"max_length":       kindConst,
		"max_milliseconds": kindConst,
		"terminator":       kindMap,
	},
	"getchar": {"namespace": kindConst},
	"evdev":   {"path": kindString},
	"uinput":  {"path": kindString},
}

// terminatorFields lists the sub-keys window's nested "terminator" table
// resolves as ConstSetting, mirroring loadEventPrototype in
// internal/catalog/window.go. This is the one nested-table shape the
// built-in catalog uses, so it is hardcoded rather than schema-driven.
var terminatorFields = []string{"namespace", "major", "minor", "payload"}

// convertOptions converts a node's raw decoded Options table into the
// typed values internal/catalog's Create functions expect, per nodeType's
// entry in nodeOptionSchemas.
func convertOptions(nodeType string, raw map[string]any, predicates map[string]predicate.Handle) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	schema := nodeOptionSchemas[nodeType]
	out := make(map[string]any, len(raw))
	for key, v := range raw {
		kind, ok := schema[key]
		if !ok {
			out[key] = v
			continue
		}
		converted, err := convertValue(kind, v, predicates)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

func convertValue(kind optionKind, v any, predicates map[string]predicate.Handle) (any, error) {
	switch kind {
	case kindConst:
		return toConstSetting(v)

	case kindConstSlice:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected an array, got %T", v)
		}
		out := make([]graph.ConstSetting, 0, len(items))
		for _, item := range items {
			cs, err := toConstSetting(item)
			if err != nil {
				return nil, err
			}
			out = append(out, cs)
		}
		return out, nil

	case kindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return s, nil

	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool, got %T", v)
		}
		return b, nil

	case kindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a table, got %T", v)
		}
		out := make(map[string]any, len(m))
		for k, sub := range m {
			isField := false
			for _, f := range terminatorFields {
				if f == k {
					isField = true
					break
				}
			}
			if !isField {
				out[k] = sub
				continue
			}
			cs, err := toConstSetting(sub)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = cs
		}
		return out, nil

	case kindPredicate:
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a predicate name string, got %T", v)
		}
		h, ok := predicates[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", engine.ErrUnknownPredicate, name)
		}
		return h, nil

	case kindPredicateSlice:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected an array, got %T", v)
		}
		out := make([]predicate.Handle, 0, len(items))
		for _, item := range items {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a predicate name string, got %T", item)
			}
			h, ok := predicates[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", engine.ErrUnknownPredicate, name)
			}
			out = append(out, h)
		}
		return out, nil

	default:
		return v, nil
	}
}

// toConstSetting converts a raw TOML value into a ConstSetting: integers
// (TOML decodes bare integers as int64 into interface{} targets) become
// literals, strings become named references resolved later against
// graph.InitEnv's constant table.
func toConstSetting(v any) (graph.ConstSetting, error) {
	switch value := v.(type) {
	case int64:
		return graph.Const(value), nil
	case string:
		return graph.ConstRef(value), nil
	case graph.ConstSetting:
		return value, nil
	default:
		return graph.ConstSetting{}, fmt.Errorf("expected an integer or a constant name, got %T", v)
	}
}
