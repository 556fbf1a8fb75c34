package schema

import (
	"strings"

	"tree-reshaper/internal/shapeerr"
)

//go:generate go tool stringer -type=Mode -linecomment -output=mode_string.go

// Mode selects how a schema is executed.
type Mode int

const (
	_ Mode = iota // skip zero value, use it as the unknown mode

	ModeReshape // reshape
	ModeSelect  // select
	ModePrune   // prune
)

// IsValid returns true if the mode is one of the three execution modes.
func (m Mode) IsValid() bool {
	return m >= ModeReshape && m <= ModePrune
}

// Validate returns a *shapeerr.SchemaError for out-of-range modes.
func (m Mode) Validate() error {
	if m.IsValid() {
		return nil
	}

	return unknownMode(m.String())
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(name string) (Mode, error) {
	for m := ModeReshape; m <= ModePrune; m++ {
		if strings.EqualFold(m.String(), strings.TrimSpace(name)) {
			return m, nil
		}
	}

	return 0, unknownMode(name)
}

func unknownMode(name string) error {
	return &shapeerr.SchemaError{
		Code:    "unknown_mode",
		Entry:   -1,
		Message: "unknown mode " + name + ", expected reshape, select or prune",
	}
}
