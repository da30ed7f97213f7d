package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load parses the TOML file at path into a Document.
func Load(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &doc, nil
}
