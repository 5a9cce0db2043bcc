package routerenroll

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRouterTable reads a router table from a YAML or JSON file
func LoadRouterTable(path string) (RouterTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read router table: %w", err)
	}

	table, err := ParseRouterTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse router table %s: %w", path, err)
	}

	return table, nil
}

// ParseRouterTable decodes a mapping of chain id to router address.
// Entries keep the order in which they appear in the document.
func ParseRouterTable(data []byte) (RouterTable, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &InvalidParamError{Message: "router table is empty"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &InvalidParamError{Message: fmt.Sprintf("router table must be a mapping, got line %d", root.Line)}
	}

	table := make(RouterTable, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, &InvalidParamError{Message: fmt.Sprintf("router table entry at line %d must be chain id: address", key.Line)}
		}
		table = append(table, RouterEntry{ChainID: key.Value, Address: value.Value})
	}

	if err := table.validate(); err != nil {
		return nil, err
	}

	return table, nil
}

// validate checks that every key is a chain id and that no id is listed twice,
// however its key is spelled.
func (t RouterTable) validate() error {
	seen := make(map[uint32]string, len(t))
	for _, entry := range t {
		id, err := ParseChainID(entry.ChainID)
		if err != nil {
			return err
		}
		if first, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s and %s are both chain %d", ErrDuplicateChainID, first, entry.ChainID, id)
		}
		seen[id] = entry.ChainID
	}
	return nil
}
