package parsers

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cosmic17/gowire"
)

// YAML unmarshals a YAML document and returns a dotted-path parser over
// it.
func YAML(data []byte) (gowire.Parser, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsers: invalid yaml: %w", err)
	}
	return Map(m), nil
}
