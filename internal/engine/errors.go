package engine

import "errors"

// Sentinel configuration errors. Callers that build a graph from
// user-supplied configuration wrap the offending name or value onto one of
// these via %w, so a caller can distinguish "bad config" from any other
// failure with errors.Is regardless of which package actually detected it.
var (
	ErrUnknownNodeType    = errors.New("engine: unknown node type")
	ErrUnknownSlot        = errors.New("engine: unknown slot")
	ErrUnknownPredicate   = errors.New("engine: unknown predicate")
	ErrModifierOutOfRange = errors.New("engine: modifier out of range")
)
