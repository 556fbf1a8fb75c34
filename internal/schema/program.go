package schema

import (
	"strings"

	"tree-reshaper/cast"
	"tree-reshaper/internal/common"
)

// SegmentKind distinguishes exact keys from wildcards in input paths.
type SegmentKind int

const (
	// SegmentLiteral requires an exact key at the current level.
	SegmentLiteral SegmentKind = iota
	// SegmentCapture matches every key at the current level.
	SegmentCapture
)

// Segment is one step of a key-path program. Text is the key of a literal
// or the name of a capture.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Literal returns an exact-key segment.
func Literal(key string) Segment {
	return Segment{Kind: SegmentLiteral, Text: key}
}

// Capture returns a wildcard segment bound to name.
func Capture(name string) Segment {
	return Segment{Kind: SegmentCapture, Text: name}
}

// Program is a compiled key path.
type Program []Segment

// Render writes the program back in the path micro-language.
func (p Program) Render(d Delimiters) string {
	parts := make([]string, len(p))

	for i, seg := range p {
		switch seg.Kind {
		case SegmentCapture:
			name := seg.Text
			if isSynthetic(name) {
				name = ""
			}

			parts[i] = d.Capture + escapeText(name, d)
		default:
			parts[i] = escapeText(seg.Text, d)
		}
	}

	return strings.Join(parts, d.Segment)
}

func (p Program) String() string {
	return p.Render(DefaultDelimiters())
}

// Policy is the missing-element policy of an input.
type Policy int

const (
	// PolicyInherit follows the engine-wide setting.
	PolicyInherit Policy = iota
	PolicyRequired
	PolicyIgnore
)

// String returns the policy token used in shorthand.
func (p Policy) String() string {
	switch p {
	case PolicyInherit:
		return "inherit"
	case PolicyRequired:
		return "required"
	case PolicyIgnore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// Effective resolves the policy against the engine-wide "ignore
// non-existing elements" setting.
func (p Policy) Effective(ignoreMissing bool) Policy {
	switch {
	case p == PolicyIgnore:
		return PolicyIgnore
	case ignoreMissing && p != PolicyRequired:
		return PolicyIgnore
	default:
		return PolicyRequired
	}
}

// Input is a compiled input definition.
type Input struct {
	Path Program
	// Stream is the declared stream name, empty for unnamed inputs.
	Stream string
	Cast   *cast.Spec
	Policy Policy
	// Captures maps each capture name to its segment position.
	Captures map[string]int
}

// OutputKind classifies output path segments.
type OutputKind int

const (
	OutputLiteral OutputKind = iota
	// OutputCapture is replaced by the key matched by a capture of the input.
	OutputCapture
	// OutputIndex is a per-container running index.
	OutputIndex
	// OutputStream is replaced by the current value of a named stream.
	OutputStream
)

// OutputSegment is one step of an output path.
type OutputSegment struct {
	Kind OutputKind
	Text string
}

// SourceKind selects where an output's value comes from.
type SourceKind int

const (
	// SourceSame assigns the input row's own value.
	SourceSame SourceKind = iota
	// SourceStream assigns the current value of a named stream.
	SourceStream
	// SourceCapture assigns a captured key.
	SourceCapture
)

// ValueSource names the origin of an output value.
type ValueSource struct {
	Kind SourceKind
	Name string
}

// Output is a compiled reshape output definition.
type Output struct {
	Path   []OutputSegment
	Source ValueSource
	Cast   *cast.Spec
}

// Streams returns the stream names the output reads, in order of first use.
func (o *Output) Streams() []string {
	var names []string

	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, seg := range o.Path {
		if seg.Kind == OutputStream {
			add(seg.Text)
		}
	}

	if o.Source.Kind == SourceStream {
		add(o.Source.Name)
	}

	return names
}

// Entry pairs an input with its output. Output is nil outside reshape mode.
type Entry struct {
	Input  Input
	Output *Output
}

// Schema is a compiled, validated program ready for execution.
type Schema struct {
	Mode    Mode
	Entries []Entry
	// Streams maps each declared stream name to its entry.
	Streams map[string]int
}

const syntheticPrefix = "#"

func isSynthetic(name string) bool {
	return strings.HasPrefix(name, syntheticPrefix)
}
