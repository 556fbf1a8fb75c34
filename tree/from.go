package tree

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// From converts a Go-native value into a tree. Maps become *Map with keys
// in sorted order, slices and arrays become *List, and structs are treated
// as maps of their exported fields in declaration order, named by their
// json tag when present. Trees pass through unchanged.
func From(v any) Value {
	switch v.(type) {
	case nil:
		return nil
	case *Map, *List:
		return v
	}

	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return nil
	}

	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case *Map, *List:
			return v
		}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return fromReflect(rv.Elem())

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}

		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))

		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
			byName[names[i]] = rv.MapIndex(k)
		}

		slices.Sort(names)

		m := NewMap()
		for _, name := range names {
			m.Set(name, fromReflect(byName[name]))
		}

		return m

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}

		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}

		fallthrough

	case reflect.Array:
		l := NewList()
		for i := range rv.Len() {
			l.Append(fromReflect(rv.Index(i)))
		}

		return l

	case reflect.Struct:
		if rv.Type() == timeType {
			return rv.Interface()
		}

		return fromStruct(rv)

	default:
		return rv.Interface()
	}
}

func fromStruct(rv reflect.Value) *Map {
	m := NewMap()
	rt := rv.Type()

	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name

		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}

			if tagName != "" {
				name = tagName
			}
		}

		m.Set(name, fromReflect(rv.Field(i)))
	}

	return m
}
