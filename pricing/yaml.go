package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a price list written as a YAML mapping of city to price:
//
//	london: "$799"
//	paris: "$899"
//
// The document is decoded as a node tree so that source order is kept and a
// repeated city is accepted, with the last definition winning.
func ParseYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse price list: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewTable(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("price list must be a mapping of city to price, got %s", kindName(root.Kind))
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("price list line %d: city and price must be scalars", key.Line)
		}
		if key.Value == "" {
			return nil, fmt.Errorf("price list line %d: empty city name", key.Line)
		}
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			return nil, fmt.Errorf("price list line %d: empty price", value.Line)
		}
		entries = append(entries, Entry{City: key.Value, Price: value.Value})
	}
	return NewTable(entries...), nil
}

// LoadFile reads a YAML price list from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price list '%s': %w", path, err)
	}
	return ParseYAML(data)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
