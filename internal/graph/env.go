package graph

import "github.com/vftdan/est-go/internal/predicate"

// NodeConfig is a node's configuration subtree: a name, a type, and an
// opaque Options value produced by the config loader. Options is typically
// a map[string]any decoded from TOML by the config package; catalog node
// Create functions type-assert the fields they need.
type NodeConfig struct {
	Name    string
	Type    string
	Options map[string]any
}

// ConstSetting is a numeric configuration field that may be specified as
// either a literal integer or a name resolved through the constant
// registry.
type ConstSetting struct {
	Literal int64
	Name    string
	HasName bool
}

// Const builds a literal ConstSetting.
func Const(v int64) ConstSetting { return ConstSetting{Literal: v} }

// ConstRef builds a name-reference ConstSetting.
func ConstRef(name string) ConstSetting { return ConstSetting{Name: name, HasName: true} }

// InitEnv is the initialisation environment passed to every
// NodeSpecification.Create call: constant name resolution and predicate
// handle validation, plus the engine Runtime the node will act through.
type InitEnv struct {
	Runtime   *Runtime
	Constants map[string]int64
}

// ResolveConstant returns s's literal value, or resolves its name against
// the constant registry, returning 0 for an unknown name.
func (e *InitEnv) ResolveConstant(s ConstSetting) int64 {
	return e.ResolveConstantOr(s, 0)
}

// ResolveConstantOr returns s's literal value, or resolves its name
// against the constant registry, falling back to def if the name is
// unknown.
func (e *InitEnv) ResolveConstantOr(s ConstSetting, def int64) int64 {
	if !s.HasName {
		return s.Literal
	}
	if v, ok := e.Constants[s.Name]; ok {
		return v
	}
	return def
}

// ResolvePredicate returns handle if it names a predicate registered in
// the Runtime's registry, or predicate.Invalid otherwise. Node configs
// reference predicates by name; the config loader has already turned those
// names into handles and populated the registry by the time graph
// construction runs.
func (e *InitEnv) ResolvePredicate(handle predicate.Handle) predicate.Handle {
	if _, ok := e.Runtime.Predicates.Get(handle); !ok {
		return predicate.Invalid
	}
	return handle
}
