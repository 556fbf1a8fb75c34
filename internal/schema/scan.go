package schema

import (
	"errors"
	"strings"
)

const escape = '\\'

var errDanglingEscape = errors.New("dangling escape at end of path")

// indexUnescaped returns the first position of sep in s that is not
// preceded by an escape, or -1.
func indexUnescaped(s, sep string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == escape {
			i++
			continue
		}

		if strings.HasPrefix(s[i:], sep) {
			return i
		}
	}

	return -1
}

// lastIndexUnescaped returns the last unescaped position of sep in s, or -1.
func lastIndexUnescaped(s, sep string) int {
	last := -1

	for i := 0; i < len(s); i++ {
		if s[i] == escape {
			i++
			continue
		}

		if strings.HasPrefix(s[i:], sep) {
			last = i
			i += len(sep) - 1
		}
	}

	return last
}

// splitUnescaped splits s around unescaped occurrences of sep. Escapes are
// kept so that callers can still recognise escaped prefixes.
func splitUnescaped(s, sep string) []string {
	var parts []string

	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] == escape {
			i++
			continue
		}

		if strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			start = i + len(sep)
			i = start - 1
		}
	}

	return append(parts, s[start:])
}

// unescape drops the escape character in front of every escaped byte.
func unescape(s string) (string, error) {
	if strings.IndexByte(s, escape) < 0 {
		return s, nil
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != escape {
			b.WriteByte(s[i])
			continue
		}

		if i+1 >= len(s) {
			return "", errDanglingEscape
		}

		i++
		b.WriteByte(s[i])
	}

	return b.String(), nil
}

// escapeText escapes text so that it reads back as a single literal under d.
func escapeText(text string, d Delimiters) string {
	text = strings.ReplaceAll(text, `\`, `\\`)

	for _, sep := range []string{d.Segment, d.Cast, d.Value} {
		text = strings.ReplaceAll(text, sep, `\`+sep)
	}

	if strings.HasPrefix(text, d.Capture) || strings.HasPrefix(text, d.Stream) || text == d.Index {
		text = `\` + text
	}

	return text
}
