package schema

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders a compiled schema: a readable summary per entry followed by
// the full structure.
func Dump(s *Schema, d Delimiters) string {
	if s == nil {
		return "<nil schema>\n"
	}

	d = d.WithDefaults()

	var b strings.Builder

	fmt.Fprintf(&b, "mode: %s\n", s.Mode)

	for i, e := range s.Entries {
		fmt.Fprintf(&b, "%d: %s", i, e.Input.Path.Render(d))

		if e.Input.Cast != nil {
			fmt.Fprintf(&b, " cast=%s", e.Input.Cast)
		}

		if e.Input.Policy != PolicyInherit {
			fmt.Fprintf(&b, " policy=%s", e.Input.Policy)
		}

		if e.Input.Stream != "" {
			fmt.Fprintf(&b, " stream=%s", e.Input.Stream)
		}

		if e.Output != nil {
			fmt.Fprintf(&b, " -> %s", RenderOutput(e.Output.Path, d))

			switch e.Output.Source.Kind {
			case SourceStream:
				fmt.Fprintf(&b, " value=%s%s", d.Stream, e.Output.Source.Name)
			case SourceCapture:
				fmt.Fprintf(&b, " value=%s%s", d.Capture, e.Output.Source.Name)
			case SourceSame:
			}

			if e.Output.Cast != nil {
				fmt.Fprintf(&b, " cast=%s", e.Output.Cast)
			}
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dumpConfig.Sdump(s))

	return b.String()
}
