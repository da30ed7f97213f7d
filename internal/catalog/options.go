package catalog

import "github.com/vftdan/est-go/internal/graph"

// optConst reads a ConstSetting-valued option. The config loader decodes
// bare TOML integers into graph.Const and quoted constant references into
// graph.ConstRef before Options ever reaches a node's Create function.
func optConst(cfg *graph.NodeConfig, key string) (graph.ConstSetting, bool) {
	if cfg == nil || cfg.Options == nil {
		return graph.ConstSetting{}, false
	}
	v, ok := cfg.Options[key]
	if !ok {
		return graph.ConstSetting{}, false
	}
	cs, ok := v.(graph.ConstSetting)
	return cs, ok
}

func optConstSlice(cfg *graph.NodeConfig, key string) ([]graph.ConstSetting, bool) {
	if cfg == nil || cfg.Options == nil {
		return nil, false
	}
	v, ok := cfg.Options[key]
	if !ok {
		return nil, false
	}
	cs, ok := v.([]graph.ConstSetting)
	return cs, ok
}

func optString(cfg *graph.NodeConfig, key string) (string, bool) {
	if cfg == nil || cfg.Options == nil {
		return "", false
	}
	v, ok := cfg.Options[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optBool(cfg *graph.NodeConfig, key string) (bool, bool) {
	if cfg == nil || cfg.Options == nil {
		return false, false
	}
	v, ok := cfg.Options[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func optMap(cfg *graph.NodeConfig, key string) (map[string]any, bool) {
	if cfg == nil || cfg.Options == nil {
		return nil, false
	}
	v, ok := cfg.Options[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
