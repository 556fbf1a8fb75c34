package schema

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyPath = errors.New("empty path")

// ParsePath parses a key path such as "users.$id.name" into a Program.
// Delimiters may appear literally when escaped: "a\.b" is the single key "a.b".
func ParsePath(path string, d Delimiters) (Program, error) {
	if path == "" {
		return nil, errEmptyPath
	}

	return parseSegments(splitUnescaped(path, d.Segment), d)
}

// parseSegments turns raw, still escaped segments into a Program. Unnamed
// captures are left with an empty name.
func parseSegments(parts []string, d Delimiters) (Program, error) {
	if len(parts) == 0 {
		return nil, errEmptyPath
	}

	prog := make(Program, 0, len(parts))

	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty segment at position %d", i)
		}

		if strings.HasPrefix(part, d.Capture) {
			name, err := unescape(part[len(d.Capture):])
			if err != nil {
				return nil, err
			}

			prog = append(prog, Capture(name))

			continue
		}

		key, err := unescape(part)
		if err != nil {
			return nil, err
		}

		prog = append(prog, Literal(key))
	}

	return prog, nil
}

// parseOutputPath parses a reshape output path. Besides literals it knows
// captured-key references ("$id"), stream values ("@names") and the running
// index ("*").
func parseOutputPath(path string, d Delimiters) ([]OutputSegment, error) {
	if path == "" {
		return nil, errEmptyPath
	}

	return parseOutputSegments(splitUnescaped(path, d.Segment), d)
}

func parseOutputSegments(parts []string, d Delimiters) ([]OutputSegment, error) {
	if len(parts) == 0 {
		return nil, errEmptyPath
	}

	out := make([]OutputSegment, 0, len(parts))

	for i, part := range parts {
		var (
			seg OutputSegment
			err error
		)

		switch {
		case part == "":
			return nil, fmt.Errorf("empty segment at position %d", i)
		case part == d.Index:
			seg = OutputSegment{Kind: OutputIndex}
		case strings.HasPrefix(part, d.Capture):
			seg, err = namedOutputSegment(OutputCapture, part[len(d.Capture):], "capture", i)
		case strings.HasPrefix(part, d.Stream):
			seg, err = namedOutputSegment(OutputStream, part[len(d.Stream):], "stream", i)
		default:
			var key string

			key, err = unescape(part)
			seg = OutputSegment{Kind: OutputLiteral, Text: key}
		}

		if err != nil {
			return nil, err
		}

		out = append(out, seg)
	}

	return out, nil
}

func namedOutputSegment(kind OutputKind, raw, what string, pos int) (OutputSegment, error) {
	name, err := unescape(raw)
	if err != nil {
		return OutputSegment{}, err
	}

	if name == "" {
		return OutputSegment{}, fmt.Errorf("%s reference at position %d has no name", what, pos)
	}

	return OutputSegment{Kind: kind, Text: name}, nil
}

// RenderOutput writes an output path back in the path micro-language.
func RenderOutput(path []OutputSegment, d Delimiters) string {
	parts := make([]string, len(path))

	for i, seg := range path {
		switch seg.Kind {
		case OutputIndex:
			parts[i] = d.Index
		case OutputCapture:
			parts[i] = d.Capture + escapeText(seg.Text, d)
		case OutputStream:
			parts[i] = d.Stream + escapeText(seg.Text, d)
		default:
			parts[i] = escapeText(seg.Text, d)
		}
	}

	return strings.Join(parts, d.Segment)
}
