package schema

import (
	"fmt"
	"strings"
)

// Delimiters are the literal tokens of the path micro-language. Any of them
// can be taken literally inside a path by escaping it with a backslash.
type Delimiters struct {
	// Segment separates path segments ("users.$id.name").
	Segment string `yaml:"segment,omitempty"`
	// Capture prefixes a wildcard segment ("$id", "$").
	Capture string `yaml:"capture,omitempty"`
	// Stream prefixes a named-stream reference in output paths ("@names").
	Stream string `yaml:"stream,omitempty"`
	// Cast starts the cast/policy suffix ("|float:3", "|ignore").
	Cast string `yaml:"cast,omitempty"`
	// Param separates a cast type from its parameter.
	Param string `yaml:"param,omitempty"`
	// Value introduces a stream name on inputs or a value source on outputs.
	Value string `yaml:"value,omitempty"`
	// Index is the running-index segment of output paths.
	Index string `yaml:"index,omitempty"`
}

// DefaultDelimiters returns the standard token set.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Segment: ".",
		Capture: "$",
		Stream:  "@",
		Cast:    "|",
		Param:   ":",
		Value:   "=>",
		Index:   "*",
	}
}

// WithDefaults fills empty tokens from DefaultDelimiters.
func (d Delimiters) WithDefaults() Delimiters {
	def := DefaultDelimiters()

	fill := func(v *string, fallback string) {
		if *v == "" {
			*v = fallback
		}
	}

	fill(&d.Segment, def.Segment)
	fill(&d.Capture, def.Capture)
	fill(&d.Stream, def.Stream)
	fill(&d.Cast, def.Cast)
	fill(&d.Param, def.Param)
	fill(&d.Value, def.Value)
	fill(&d.Index, def.Index)

	return d
}

// Validate checks that every token is set, free of backslashes, and that
// the separators splitting a definition are distinct from each other.
func (d Delimiters) Validate() error {
	named := []struct {
		name, value string
	}{
		{"segment", d.Segment},
		{"capture", d.Capture},
		{"stream", d.Stream},
		{"cast", d.Cast},
		{"param", d.Param},
		{"value", d.Value},
		{"index", d.Index},
	}

	for _, n := range named {
		if n.value == "" {
			return fmt.Errorf("%s delimiter is empty", n.name)
		}

		if strings.Contains(n.value, `\`) {
			return fmt.Errorf("%s delimiter %q contains a backslash", n.name, n.value)
		}
	}

	separators := map[string]string{}
	for _, n := range []struct{ name, value string }{
		{"segment", d.Segment}, {"cast", d.Cast}, {"value", d.Value},
	} {
		if other, ok := separators[n.value]; ok {
			return fmt.Errorf("%s and %s delimiters are both %q", other, n.name, n.value)
		}

		separators[n.value] = n.name
	}

	return nil
}
