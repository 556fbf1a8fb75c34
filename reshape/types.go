package reshape

import (
	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/shapeerr"
)

// Mode selects how a schema is executed.
type Mode = schema.Mode

const (
	ModeReshape = schema.ModeReshape
	ModeSelect  = schema.ModeSelect
	ModePrune   = schema.ModePrune
)

// ParseMode resolves "reshape", "select" or "prune", case-insensitively.
func ParseMode(name string) (Mode, error) {
	return schema.ParseMode(name)
}

// Schema types.
type (
	Raw        = schema.Raw
	RawEntry   = schema.RawEntry
	RawDef     = schema.RawDef
	Keys       = schema.Keys
	Delimiters = schema.Delimiters
	Schema     = schema.Schema
	SchemaFile = schema.File
)

var (
	// Pair builds a reshape entry from shorthand input and output strings.
	Pair = schema.Pair
	// Path builds a select or prune entry from a shorthand path.
	Path = schema.Path
	// PathKeys and SegmentKeys build the keys of structured definitions.
	PathKeys    = schema.PathKeys
	SegmentKeys = schema.SegmentKeys

	DefaultDelimiters = schema.DefaultDelimiters
	LoadSchema        = schema.LoadFile
	ParseSchema       = schema.Parse
)

// Errors returned by Convert and Compile.
type (
	SchemaError         = shapeerr.SchemaError
	TypeMismatchError   = shapeerr.TypeMismatchError
	MissingElementError = shapeerr.MissingElementError
	CastError           = shapeerr.CastError
)

var (
	ErrSchema          = shapeerr.ErrSchema
	ErrTypeMismatch    = shapeerr.ErrTypeMismatch
	ErrMissingElement  = shapeerr.ErrMissingElement
	ErrCast            = shapeerr.ErrCast
	ErrUnsupportedCast = shapeerr.ErrUnsupportedCast
)
