package walk

import (
	"errors"

	"tree-reshaper/cast"
	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/tree"
)

// Apply casts v according to spec. A nil spec leaves v untouched. Failures
// are reported as *shapeerr.CastError whatever the caster returned.
func Apply(c cast.Caster, v tree.Value, spec *cast.Spec) (tree.Value, error) {
	if spec == nil {
		return v, nil
	}

	if c == nil {
		return nil, &shapeerr.CastError{Type: spec.Type, Param: spec.Param, Value: v, Err: shapeerr.ErrUnsupportedCast}
	}

	out, err := c.Cast(v, *spec)
	if err == nil {
		return out, nil
	}

	var ce *shapeerr.CastError
	if errors.As(err, &ce) {
		return nil, err
	}

	return nil, &shapeerr.CastError{Type: spec.Type, Param: spec.Param, Value: v, Err: err}
}
