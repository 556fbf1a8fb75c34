// Package cast converts tree values to named types.
//
// A schema attaches a cast to an entry with the "|type:param" suffix. The
// engine hands the type name and parameter to a Caster verbatim; the
// Registry in this package is the default Caster and can be extended with
// host-specific casts.
//
// Built-in type names:
//
//	int int8 int16 int32 int64 integer
//	uint uint8 uint16 uint32 uint64
//	float32 float64 float double real   param: decimal places
//	bool boolean                        accepts yes/no, on/off, true/false, 1/0
//	string
//	time datetime                       param: layout (default RFC 3339)
//	date                                param: layout (default 2006-01-02)
//	duration                            strings like "2h45m", integers as nanoseconds, floats as seconds
//	list array                          wraps scalars, flattens maps to their values
package cast

import (
	"errors"
	"strings"
	"sync"

	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/tree"
)

// DefaultFloatPrecision is the number of decimals applied to floating-point
// casts that do not name one.
const DefaultFloatPrecision = "2"

// ErrIncompatible reports a value whose shape cannot be converted to the
// requested type, such as a map cast to int.
var ErrIncompatible = errors.New("incompatible value")

// Spec names the requested type and its optional parameter.
type Spec struct {
	Type  string `yaml:"type"`
	Param string `yaml:"param,omitempty"`
}

func (s Spec) String() string {
	if s.Param == "" {
		return s.Type
	}

	return s.Type + ":" + s.Param
}

// Caster converts a value according to a Spec.
type Caster interface {
	Cast(v tree.Value, spec Spec) (tree.Value, error)
}

// CasterFunc adapts a function to the Caster interface.
type CasterFunc func(v tree.Value, spec Spec) (tree.Value, error)

func (f CasterFunc) Cast(v tree.Value, spec Spec) (tree.Value, error) {
	return f(v, spec)
}

// Func implements one named cast. param is "" when the schema gave none.
type Func func(v tree.Value, param string) (tree.Value, error)

// Registry is a Caster dispatching on type names. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a registry holding the built-in casts.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	for k := KindInt; k <= KindList; k++ {
		r.funcs[k.String()] = builtin(k)
	}

	for alias, k := range aliases {
		r.funcs[alias] = builtin(k)
	}

	return r
}

// Register adds or replaces a named cast. Names are case-insensitive.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[strings.ToLower(name)] = fn
}

// Has returns true if a cast with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.funcs[strings.ToLower(name)]

	return ok
}

// Cast applies the named cast. Every failure is a *shapeerr.CastError.
func (r *Registry) Cast(v tree.Value, spec Spec) (tree.Value, error) {
	r.mu.RLock()
	fn, ok := r.funcs[strings.ToLower(spec.Type)]
	r.mu.RUnlock()

	if !ok {
		return nil, &shapeerr.CastError{Type: spec.Type, Param: spec.Param, Value: v, Err: shapeerr.ErrUnsupportedCast}
	}

	out, err := fn(v, spec.Param)
	if err != nil {
		var ce *shapeerr.CastError
		if errors.As(err, &ce) {
			return nil, err
		}

		return nil, &shapeerr.CastError{Type: spec.Type, Param: spec.Param, Value: v, Err: err}
	}

	return out, nil
}
