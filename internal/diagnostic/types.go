package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"tree-reshaper/internal/common"
	"tree-reshaper/internal/shapeerr"
)

// NoEntry marks a diagnostic that is not tied to a schema entry.
const NoEntry = -1

// Diagnostics holds everything reported during a schema compilation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Entry is the zero-based schema entry this relates to, or NoEntry.
	Entry int
	// Path is the raw path text this relates to (if any).
	Path string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticWarning DiagnosticSeverity = iota
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string, entry int, path string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    DiagnosticError,
		Code:        code,
		Message:     message,
		Entry:       entry,
		Path:        path,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, entry int, path string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Entry:    entry,
		Path:     path,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err joins the error diagnostics into one error, or returns nil if valid.
// Each part is a *shapeerr.SchemaError, so errors.As finds the first one.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, e.SchemaError())
	}

	return errors.Join(errs...)
}

// SchemaError converts the diagnostic into the error raised to callers.
func (d Diagnostic) SchemaError() *shapeerr.SchemaError {
	msg := d.Message
	if len(d.Suggestions) > 0 {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(quoteAll(d.Suggestions), " or "))
	}

	return &shapeerr.SchemaError{
		Code:    d.Code,
		Entry:   d.Entry,
		Path:    d.Path,
		Message: msg,
	}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Entry != NoEntry {
		prefix = append(prefix, fmt.Sprintf("[entry %d]", d.Entry))
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("%q", s)
	}

	return out
}
