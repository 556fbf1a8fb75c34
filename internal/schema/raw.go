package schema

import (
	"strconv"
	"strings"
)

// Raw is an uncompiled schema: the ordered entries exactly as written.
type Raw struct {
	Entries Entries `yaml:"entries"`
}

// Entries is an ordered list of raw entries. In YAML it is either a
// sequence of entries or a mapping of shorthand input -> output pairs.
type Entries []RawEntry

// RawEntry is one schema entry. Output is only meaningful in reshape mode.
type RawEntry struct {
	Input  RawDef  `yaml:"input"`
	Output *RawDef `yaml:"output,omitempty"`
}

// RawDef is an input or output definition, written either as a shorthand
// path string (Text) or as structured fields.
//
// Shorthand examples:
//
//	users.$id.name|string|required=>names   input: path, cast, policy, stream
//	byId.$id                                output: capture reference
//	list.*|int=>@names                      output: running index, cast, stream value
type RawDef struct {
	// Text is the shorthand form. When set, the structured fields must be empty.
	Text string `yaml:"-"`

	// Keys is the key path. Required for structured definitions.
	Keys *Keys `yaml:"keys,omitempty"`

	// Name declares a named stream (reshape inputs only).
	Name string `yaml:"name,omitempty"`

	// Type and Param describe the cast applied to each value.
	Type  string `yaml:"type,omitempty"`
	Param string `yaml:"param,omitempty"`

	// Policy is "required", "ignore" or empty to inherit the engine setting.
	Policy string `yaml:"policy,omitempty"`

	// Value overrides the value source of an output: "@stream" or "$capture".
	Value string `yaml:"value,omitempty"`
}

// Keys is the key path of a structured definition: one path string split
// like shorthand, or a list holding exactly one segment per element.
type Keys struct {
	Path     string
	Segments []string
	IsList   bool
}

// PathKeys returns keys given as a single path string.
func PathKeys(path string) *Keys {
	return &Keys{Path: path}
}

// SegmentKeys returns keys given one segment per element.
func SegmentKeys(segments ...string) *Keys {
	return &Keys{Segments: segments, IsList: true}
}

// Shorthand returns a definition written in the path micro-language.
func Shorthand(text string) RawDef {
	return RawDef{Text: text}
}

// Pair returns a reshape entry from shorthand input and output strings.
func Pair(input, output string) RawEntry {
	out := Shorthand(output)
	return RawEntry{Input: Shorthand(input), Output: &out}
}

// Path returns a select or prune entry from a shorthand path.
func Path(input string) RawEntry {
	return RawEntry{Input: Shorthand(input)}
}

// IsShorthand reports whether the definition uses the string form.
func (d RawDef) IsShorthand() bool {
	return d.Text != ""
}

func (d RawDef) hasStructuredFields() bool {
	return d.Keys != nil || d.Name != "" || d.Type != "" || d.Param != "" || d.Policy != "" || d.Value != ""
}

// Fingerprint renders the schema deterministically. Two raw schemas with the
// same fingerprint compile to the same program.
func (r Raw) Fingerprint() string {
	var b strings.Builder

	for _, e := range r.Entries {
		b.WriteString("[")
		e.Input.fingerprint(&b)

		if e.Output != nil {
			b.WriteString("->")
			e.Output.fingerprint(&b)
		}

		b.WriteString("]")
	}

	return b.String()
}

func (d RawDef) fingerprint(b *strings.Builder) {
	if d.IsShorthand() {
		b.WriteString(strconv.Quote(d.Text))
	}

	b.WriteString("{")

	if d.Keys != nil {
		if d.Keys.IsList {
			b.WriteString("list")

			for _, s := range d.Keys.Segments {
				b.WriteString(strconv.Quote(s))
			}
		} else {
			b.WriteString(strconv.Quote(d.Keys.Path))
		}
	}

	for _, f := range []string{d.Name, d.Type, d.Param, d.Policy, d.Value} {
		b.WriteString(",")
		b.WriteString(strconv.Quote(f))
	}

	b.WriteString("}")
}
