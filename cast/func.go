package cast

import (
	"errors"
	"fmt"
	"reflect"

	"tree-reshaper/tree"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrRejected             = errors.New("caster rejected the value")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunc registers a typed Go function as a named cast.
//
// Supports signatures:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
//
// The tree value is converted to the parameter type when Go allows it, and
// the result is brought back into the tree model with tree.From. A false
// bool result fails the cast with ErrRejected.
func (r *Registry) RegisterFunc(name string, fn any) error {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.NumOut() > 3 {
		return ErrIsNotACaster
	}

	hasBool, hasErr := false, false

	switch fnType.NumOut() {
	case 2:
		switch fnType.Out(1) {
		case reflect.TypeOf(false):
			hasBool = true
		case errorType:
			hasErr = true
		default:
			return ErrIsNotACaster
		}
	case 3:
		if fnType.Out(1) != reflect.TypeOf(false) || fnType.Out(2) != errorType {
			return ErrIsNotACaster
		}

		hasBool, hasErr = true, true
	}

	src := fnType.In(0)

	r.Register(name, func(v tree.Value, _ string) (tree.Value, error) {
		arg, err := argument(v, src)
		if err != nil {
			return nil, err
		}

		out := fnVal.Call([]reflect.Value{arg})

		if hasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
		}

		if hasBool && !out[1].Bool() {
			return nil, ErrRejected
		}

		return tree.From(out[0].Interface()), nil
	})

	return nil
}

func argument(v tree.Value, src reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(src), nil
	}

	rv := reflect.ValueOf(v)

	switch {
	case rv.Type().AssignableTo(src):
		return rv, nil
	case isNumeric(rv.Kind()) && isNumeric(src.Kind()):
		return rv.Convert(src), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %T is not assignable to %s", ErrIncompatible, v, src)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
