package tree

import (
	"iter"
	"slices"
	"strconv"
)

// Value is a node of a JSON-like tree: nil, a scalar, a *List or a *Map.
type Value = any

// Key addresses one child of a container: a map key or a list position.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// MapKey returns a key addressing a map entry.
func MapKey(name string) Key {
	return Key{name: name}
}

// IndexKey returns a key addressing a list position.
func IndexKey(i int) Key {
	return Key{index: i, isIndex: true}
}

// IsIndex reports whether the key addresses a list position.
func (k Key) IsIndex() bool {
	return k.isIndex
}

// Index returns the list position, or -1 for map keys.
func (k Key) Index() int {
	if !k.isIndex {
		return -1
	}

	return k.index
}

// String returns the key as it appears in a map.
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}

	return k.name
}

// Map is an insertion-ordered string-keyed map.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// MapOf builds a map from alternating key/value arguments.
// It panics when a key is not a string, which makes it suitable for literals only.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("tree.MapOf: odd number of arguments")
	}

	m := NewMap()

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("tree.MapOf: key is not a string")
		}

		m.Set(k, kv[i+1])
	}

	return m
}

func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores v under key. An existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })

	return true
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (m *Map) Clear() {
	m.keys = nil
	m.values = make(map[string]Value)
}

// List is an ordered sequence of values.
type List struct {
	items []Value
}

// NewList creates a list holding items.
func NewList(items ...Value) *List {
	return &List{items: slices.Clone(items)}
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}

	return l.items[i], true
}

// Set overwrites position i. It returns false when i is out of range.
func (l *List) Set(i int, v Value) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}

	l.items[i] = v

	return true
}

func (l *List) Append(v Value) {
	l.items = append(l.items, v)
}

// Delete removes position i, shifting the following items down.
func (l *List) Delete(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}

	l.items = slices.Delete(l.items, i, i+1)

	return true
}

// Items returns a copy of the items.
func (l *List) Items() []Value {
	return slices.Clone(l.items)
}

// All iterates the items in order.
func (l *List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (l *List) Clear() {
	l.items = nil
}

// IsContainer reports whether v is a *Map or a *List.
func IsContainer(v Value) bool {
	switch v.(type) {
	case *Map, *List:
		return true
	default:
		return false
	}
}

// KindOf names the shape of v for diagnostics.
func KindOf(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Map:
		return "map"
	case *List:
		return "list"
	default:
		return "scalar"
	}
}

// Children iterates the entries of a container. Scalars have no children.
func Children(v Value) iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		switch c := v.(type) {
		case *Map:
			for k, child := range c.All() {
				if !yield(MapKey(k), child) {
					return
				}
			}
		case *List:
			for i, child := range c.All() {
				if !yield(IndexKey(i), child) {
					return
				}
			}
		}
	}
}

// Child looks up a literal key in a container. List positions are matched
// by their decimal form.
func Child(v Value, literal string) (Key, Value, bool) {
	switch c := v.(type) {
	case *Map:
		child, ok := c.Get(literal)
		return MapKey(literal), child, ok
	case *List:
		i, ok := parseIndex(literal)
		if !ok {
			return Key{}, nil, false
		}

		child, ok := c.Get(i)

		return IndexKey(i), child, ok
	default:
		return Key{}, nil, false
	}
}

// Remove deletes a literal key from a container and reports whether it was present.
func Remove(v Value, literal string) bool {
	switch c := v.(type) {
	case *Map:
		return c.Delete(literal)
	case *List:
		i, ok := parseIndex(literal)
		return ok && c.Delete(i)
	default:
		return false
	}
}

// Empty clears a container in place.
func Empty(v Value) {
	switch c := v.(type) {
	case *Map:
		c.Clear()
	case *List:
		c.Clear()
	}
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return i, true
}
