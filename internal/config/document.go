// Package config loads a TOML description of a graph into the runtime
// types internal/graph and internal/catalog expect. It is intentionally
// minimal: no include files, no macros, no libconfig-style implicit name
// resolution — every table is explicit.
package config

// Document is the raw decoded shape of a graph's TOML configuration file.
type Document struct {
	Nodes      []NodeConfig      `toml:"nodes"`
	Channels   []ChannelConfig   `toml:"channels"`
	Constants  map[string]int64  `toml:"constants"`
	Predicates []PredicateConfig `toml:"predicates"`
}

// NodeConfig is one [[nodes]] table: a unique name, a catalog type name,
// and a type-specific options table. Options is decoded by BurntSushi/toml
// into plain Go values (string, int64, bool, []any, map[string]any);
// Build converts it into the typed values internal/catalog's node
// constructors expect, using each type's option schema.
type NodeConfig struct {
	Name    string         `toml:"name"`
	Type    string         `toml:"type"`
	Options map[string]any `toml:"options"`
}

// ChannelConfig is one [[channels]] table, wiring one node's output slot
// to another node's input slot. Endpoints are explicit fields rather than
// an implicit name/index pairing, since TOML has no single-key-group
// idiom to disambiguate direction.
type ChannelConfig struct {
	FromNode  string `toml:"from_node"`
	FromIndex int    `toml:"from_index"`
	ToNode    string `toml:"to_node"`
	ToIndex   int    `toml:"to_index"`
}

// PredicateConfig is one [[predicates]] table. Name is optional for
// anonymous predicates that nothing references by name; Children names
// other predicates in this same list (forward references are allowed).
type PredicateConfig struct {
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	Field    string   `toml:"field"`
	Min      *int64   `toml:"min"`
	Max      *int64   `toml:"max"`
	Children []string `toml:"children"`
	Modifier int      `toml:"modifier"`
	Enabled  *bool    `toml:"enabled"`
	Inverted bool     `toml:"inverted"`
}
