package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects the textual encoding of a tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses YAML or JSON into a tree, preserving mapping key order.
// An empty document decodes to nil.
func Decode(data []byte) (Value, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}

	if doc.Kind == 0 {
		return nil, nil
	}

	return FromNode(&doc)
}

// FromNode converts a decoded YAML node into a tree.
func FromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return FromNode(node.Content[0])

	case yaml.MappingNode:
		m := NewMap()

		for i := 0; i+1 < len(node.Content); i += 2 {
			child, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			m.Set(node.Content[i].Value, child)
		}

		return m, nil

	case yaml.SequenceNode:
		l := NewList()

		for _, item := range node.Content {
			child, err := FromNode(item)
			if err != nil {
				return nil, err
			}

			l.Append(child)
		}

		return l, nil

	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, errors.New("dangling alias")
		}

		return FromNode(node.Alias)

	case yaml.ScalarNode:
		var v any

		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return v, nil

	default:
		return nil, fmt.Errorf("unsupported yaml node kind %v", node.Kind)
	}
}

// Encode renders a tree in the given format.
func Encode(v Value, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// MarshalJSON renders the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (l *List) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(l.items)
}

// MarshalYAML renders the map as a YAML mapping in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for k, v := range m.All() {
		var val yaml.Node

		if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}

	return node, nil
}

func (l *List) MarshalYAML() (any, error) {
	if l.items == nil {
		return []any{}, nil
	}

	return l.items, nil
}
