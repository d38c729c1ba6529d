package mapping

import (
	"fmt"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"gopkg.in/yaml.v3"
)

const (
	keySource = "source"
	keyDest   = "dest"
)

// Parse parses a YAML mapping document. An empty document yields an empty
// mapping.
func Parse(data []byte) (*types.Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrMappingParse, "invalid mapping YAML")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &types.Mapping{Layout: types.LayoutCategorized}, nil
	}
	return FromNode(doc.Content[0])
}

// FromNode converts a decoded YAML node into a typed mapping
func FromNode(root *yaml.Node) (*types.Mapping, error) {
	root = resolveAlias(root)
	m := &types.Mapping{Layout: types.LayoutCategorized}

	if isNull(root) {
		return m, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrMalformedMapping,
			"line %d: mapping must be a map of categories, got %s", root.Line, kindName(root.Kind))
	}

	var errs errors.List
	seen := make(map[string]bool)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], resolveAlias(root.Content[i+1])
		name := keyNode.Value

		if err := ValidateCategoryName(name); err != nil {
			errs.Append(err)
			continue
		}
		if seen[name] {
			errs.Append(errors.Newf(errors.ErrMalformedMapping, "line %d: duplicate category %q", keyNode.Line, name).
				WithDetail(errors.DetailCategory, name))
			continue
		}
		seen[name] = true

		category := types.Category{Name: name}
		switch {
		case isNull(valueNode):
			// an empty category is allowed
		case valueNode.Kind == yaml.SequenceNode:
			for index, item := range valueNode.Content {
				entry, err := entryFromNode(name, index, resolveAlias(item))
				if err != nil {
					errs.Append(err)
					continue
				}
				category.Entries = append(category.Entries, entry)
			}
		default:
			errs.Append(errors.Newf(errors.ErrMalformedMapping,
				"line %d: category %q must be a list of entries, got %s", valueNode.Line, name, kindName(valueNode.Kind)).
				WithDetail(errors.DetailCategory, name))
			continue
		}

		m.Categories = append(m.Categories, category)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

func entryFromNode(category string, index int, node *yaml.Node) (types.Entry, error) {
	var entry types.Entry

	if node.Kind != yaml.MappingNode {
		return entry, entryError(category, index,
			fmt.Sprintf("line %d: entry must be a map with %q and %q, got %s", node.Line, keySource, keyDest, kindName(node.Kind)))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, resolveAlias(node.Content[i+1])
		if key != keySource && key != keyDest {
			continue
		}
		if value.Kind != yaml.ScalarNode || isNull(value) {
			return entry, entryError(category, index,
				fmt.Sprintf("line %d: %q must be a string", value.Line, key))
		}
		if key == keySource {
			entry.Source = value.Value
		} else {
			entry.Dest = value.Value
		}
	}

	if err := ValidateEntry(category, index, entry); err != nil {
		return entry, err
	}
	return entry, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "map"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}
