// Package shapeerr defines the errors raised while compiling schemas and
// converting trees.
package shapeerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema          = errors.New("schema error")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrMissingElement  = errors.New("missing element")
	ErrCast            = errors.New("cast error")
	ErrUnsupportedCast = errors.New("unsupported cast type")
)

// SchemaError reports a malformed or inconsistent schema. It is raised
// before any tree is inspected.
type SchemaError struct {
	// Code is a stable identifier such as "unresolved_capture".
	Code string
	// Entry is the zero-based schema entry, or -1 for schema-wide problems.
	Entry int
	// Path is the raw path text the problem was found in, if any.
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	var b strings.Builder

	b.WriteString("schema")

	if e.Entry >= 0 {
		fmt.Fprintf(&b, " entry %d", e.Entry)
	}

	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}

	if e.Code != "" {
		fmt.Fprintf(&b, ": [%s]", e.Code)
	} else {
		b.WriteString(":")
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	return b.String()
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// TypeMismatchError reports a capture segment walked against a scalar, or a
// container used where a scalar key is needed.
type TypeMismatchError struct {
	// Path is the key path resolved before the failing segment.
	Path []string
	// Segment is the segment that could not be applied.
	Segment string
	// Want describes what the segment needs. Empty means a map or list.
	Want string
	// Kind names what was found instead.
	Kind string
}

func (e *TypeMismatchError) Error() string {
	want := e.Want
	if want == "" {
		want = "a map or list"
	}

	return fmt.Sprintf("type mismatch at %s: segment %q needs %s, found %s",
		joinPath(e.Path), e.Segment, want, e.Kind)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// MissingElementError reports a required key that is absent, or a required
// dependent stream that ran out of rows.
type MissingElementError struct {
	// Path is the key path up to and including the missing key.
	Path []string
	// Stream is set when a dependent stream was exhausted.
	Stream string
	// Row is the row of the driving entry that needed the stream.
	Row int
}

func (e *MissingElementError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("missing element: stream %q exhausted at row %d", e.Stream, e.Row)
	}

	return "missing element at " + joinPath(e.Path)
}

func (e *MissingElementError) Is(target error) bool {
	return target == ErrMissingElement
}

// CastError wraps a failure of the cast adapter.
type CastError struct {
	Type  string
	Param string
	Value any
	Err   error
}

func (e *CastError) Error() string {
	spec := e.Type
	if e.Param != "" {
		spec += ":" + e.Param
	}

	if e.Err == nil {
		return fmt.Sprintf("cannot cast %v to %s", e.Value, spec)
	}

	return fmt.Sprintf("cannot cast %v to %s: %v", e.Value, spec, e.Err)
}

func (e *CastError) Is(target error) bool {
	return target == ErrCast
}

func (e *CastError) Unwrap() error {
	return e.Err
}

func joinPath(keys []string) string {
	if len(keys) == 0 {
		return "<root>"
	}

	return strings.Join(keys, ".")
}
