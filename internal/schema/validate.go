package schema

import (
	"sort"
)

// validate resolves cross-references between entries: stream declarations,
// and the captures and streams each reshape output refers to.
func (c *compiler) validate(s *Schema) {
	c.declareStreams(s)

	if s.Mode != ModeReshape {
		return
	}

	for i := range s.Entries {
		c.validateOutput(s, i)
	}
}

func (c *compiler) declareStreams(s *Schema) {
	for i := range s.Entries {
		in := &s.Entries[i].Input
		if in.Stream == "" {
			continue
		}

		if prev, dup := s.Streams[in.Stream]; dup {
			c.fail(i, in.Path.Render(c.delim), "duplicate_stream",
				"stream %q is already declared by entry %d", in.Stream, prev)

			continue
		}

		s.Streams[in.Stream] = i
	}

	for i := range s.Entries {
		in := &s.Entries[i].Input

		for _, name := range sortedNames(in.Captures) {
			if isSynthetic(name) {
				continue
			}

			if owner, clash := s.Streams[name]; clash {
				c.fail(i, in.Path.Render(c.delim), "ambiguous_name",
					"capture %q has the same name as the stream declared by entry %d", name, owner)
			}
		}
	}
}

func (c *compiler) validateOutput(s *Schema, idx int) {
	entry := &s.Entries[idx]
	out := entry.Output
	label := RenderOutput(out.Path, c.delim)

	captures := userNames(entry.Input.Captures)
	streams := sortedNames(s.Streams)

	checkCapture := func(name string) {
		if _, ok := entry.Input.Captures[name]; !ok {
			c.diags.AddError("unresolved_capture",
				"capture "+quote(name)+" is not declared by this entry's input",
				idx, label, suggest(name, captures)...)
		}
	}

	checkStream := func(name string) {
		if _, ok := s.Streams[name]; !ok {
			c.diags.AddError("unresolved_stream",
				"stream "+quote(name)+" is not declared by any entry",
				idx, label, suggest(name, streams)...)
		}
	}

	for _, seg := range out.Path {
		switch seg.Kind {
		case OutputCapture:
			checkCapture(seg.Text)
		case OutputStream:
			checkStream(seg.Text)
		case OutputLiteral, OutputIndex:
		}
	}

	switch out.Source.Kind {
	case SourceCapture:
		checkCapture(out.Source.Name)
	case SourceStream:
		checkStream(out.Source.Name)
	case SourceSame:
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// userNames returns the capture names written in the schema.
func userNames(captures map[string]int) []string {
	var names []string

	for _, name := range sortedNames(captures) {
		if !isSynthetic(name) {
			names = append(names, name)
		}
	}

	return names
}
