package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- Entries YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Entries.
// Accepts:
//   - A mapping of shorthand pairs: {"users.$id.name": "byId.$id"}
//   - A sequence of entries (see RawEntry.UnmarshalYAML)
//
// Mapping order is preserved.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		entries := make(Entries, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			entry, err := pairEntry(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}

			entries = append(entries, entry)
		}

		*e = entries

		return nil

	case yaml.SequenceNode:
		entries := make(Entries, 0, len(node.Content))

		for _, item := range node.Content {
			var entry RawEntry
			if err := item.Decode(&entry); err != nil {
				return err
			}

			entries = append(entries, entry)
		}

		*e = entries

		return nil

	default:
		return fmt.Errorf("line %d: expected mapping or sequence of entries", node.Line)
	}
}

// --- RawEntry YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RawEntry.
// Accepts:
//   - Single string: "users.$.name" (select/prune path)
//   - Single pair: {"users.$id.name": "byId.$id"}
//   - Explicit form: {input: ..., output: ...}
func (e *RawEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var def RawDef
		if err := node.Decode(&def); err != nil {
			return err
		}

		*e = RawEntry{Input: def}

		return nil

	case yaml.MappingNode:
		if len(node.Content) == 2 && !isEntryField(node.Content[0].Value) {
			entry, err := pairEntry(node.Content[0], node.Content[1])
			if err != nil {
				return err
			}

			*e = entry

			return nil
		}

		type plain RawEntry

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*e = RawEntry(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected string or mapping for entry", node.Line)
	}
}

func isEntryField(key string) bool {
	return key == "input" || key == "output"
}

func pairEntry(key, value *yaml.Node) (RawEntry, error) {
	if key.Kind != yaml.ScalarNode {
		return RawEntry{}, fmt.Errorf("line %d: shorthand input must be a string", key.Line)
	}

	var out RawDef
	if err := value.Decode(&out); err != nil {
		return RawEntry{}, err
	}

	return RawEntry{Input: Shorthand(key.Value), Output: &out}, nil
}

// MarshalYAML writes the entry as a single pair when both sides are shorthand.
func (e RawEntry) MarshalYAML() (any, error) {
	if e.Input.IsShorthand() && e.Output == nil {
		return e.Input.Text, nil
	}

	if e.Input.IsShorthand() && e.Output != nil && e.Output.IsShorthand() {
		return map[string]string{e.Input.Text: e.Output.Text}, nil
	}

	type plain RawEntry

	return plain(e), nil
}

// --- RawDef YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RawDef.
// A string is taken as shorthand; a mapping as the structured form.
func (d *RawDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		*d = RawDef{Text: s}

		return nil

	case yaml.MappingNode:
		type plain RawDef

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*d = RawDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected string or mapping for definition", node.Line)
	}
}

// MarshalYAML implements custom YAML marshaling for RawDef.
func (d RawDef) MarshalYAML() (any, error) {
	if d.IsShorthand() {
		return d.Text, nil
	}

	type plain RawDef

	return plain(d), nil
}

// --- Keys YAML methods ---

// UnmarshalYAML accepts a path string or a list of segments.
func (k *Keys) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		*k = Keys{Path: s}

		return nil

	case yaml.SequenceNode:
		var segments []string
		if err := node.Decode(&segments); err != nil {
			return err
		}

		*k = Keys{Segments: segments, IsList: true}

		return nil

	default:
		return errors.New("expected string or list of segments for keys")
	}
}

// MarshalYAML outputs a string for path keys and a list for segment keys.
func (k Keys) MarshalYAML() (any, error) {
	if k.IsList {
		if k.Segments == nil {
			return []string{}, nil
		}

		return k.Segments, nil
	}

	return k.Path, nil
}
