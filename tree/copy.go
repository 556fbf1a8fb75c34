package tree

import "reflect"

// Clone returns a deep copy of v. Scalars are shared, containers are not.
func Clone(v Value) Value {
	switch c := v.(type) {
	case *Map:
		out := &Map{
			keys:   make([]string, 0, len(c.keys)),
			values: make(map[string]Value, len(c.values)),
		}
		for k, child := range c.All() {
			out.Set(k, Clone(child))
		}

		return out
	case *List:
		out := &List{items: make([]Value, 0, len(c.items))}
		for _, child := range c.items {
			out.items = append(out.items, Clone(child))
		}

		return out
	default:
		return v
	}
}

// Equal reports whether a and b have the same shape, key order and scalars.
// Integer scalars compare by value regardless of their Go width.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case *List:
		y, ok := b.(*List)
		return ok && x.Equal(y)
	}

	if IsContainer(b) {
		return false
	}

	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}

	return reflect.DeepEqual(a, b)
}

// Equal compares two maps including key order.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}

	if len(m.keys) != len(other.keys) {
		return false
	}

	for i, k := range m.keys {
		if other.keys[i] != k || !Equal(m.values[k], other.values[k]) {
			return false
		}
	}

	return true
}

func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}

	if len(l.items) != len(other.items) {
		return false
	}

	for i := range l.items {
		if !Equal(l.items[i], other.items[i]) {
			return false
		}
	}

	return true
}

func asInt64(v Value) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, false
		}

		return int64(u), true
	default:
		return 0, false
	}
}
