package tree

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 4) // overwrite keeps position

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, m.Keys())
}

func TestChild(t *testing.T) {
	l := NewList("x", "y")
	m := MapOf("0", "zero", "items", l)

	k, v, ok := Child(m, "0")
	require.True(t, ok)
	assert.False(t, k.IsIndex())
	assert.Equal(t, "zero", v)

	k, v, ok = Child(l, "1")
	require.True(t, ok)
	assert.True(t, k.IsIndex())
	assert.Equal(t, 1, k.Index())
	assert.Equal(t, "y", v)

	tests := []struct {
		name    string
		node    Value
		literal string
	}{
		{"missing map key", m, "nope"},
		{"out of range", l, "2"},
		{"leading zero", l, "01"},
		{"signed index", l, "+1"},
		{"non numeric", l, "first"},
		{"scalar", "text", "0"},
		{"null", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := Child(tt.node, tt.literal)
			assert.False(t, ok)
		})
	}
}

func TestChildren_IteratesInOrder(t *testing.T) {
	var keys []string

	for k := range Children(MapOf("z", 1, "y", 2)) {
		keys = append(keys, k.String())
	}

	for k := range Children(NewList("a", "b")) {
		keys = append(keys, k.String())
	}

	for range Children("scalar") {
		t.Fatal("scalars have no children")
	}

	assert.Equal(t, []string{"z", "y", "0", "1"}, keys)
}

func TestClone_IsDeep(t *testing.T) {
	src := MapOf("a", MapOf("b", 1), "l", NewList(1, 2))
	cp := Clone(src).(*Map)

	require.True(t, Equal(src, cp))

	inner, _ := cp.Get("a")
	inner.(*Map).Set("c", 3)
	Remove(cp, "l")

	assert.False(t, Equal(src, cp))
	assert.Equal(t, []string{"a", "l"}, src.Keys())

	orig, _ := src.Get("a")
	assert.Equal(t, 1, orig.(*Map).Len())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(int64(3), 3))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(MapOf("a", 1, "b", 2), MapOf("b", 2, "a", 1)))
	assert.False(t, Equal(NewList(), NewMap()))
	assert.False(t, Equal("1", 1))
}

func TestRemoveAndEmpty(t *testing.T) {
	l := NewList("a", "b", "c")
	assert.True(t, Remove(l, "1"))
	assert.Equal(t, []Value{"a", "c"}, l.Items())
	assert.False(t, Remove(l, "5"))

	m := MapOf("a", 1)
	Empty(m)
	assert.Equal(t, 0, m.Len())

	Empty(l)
	assert.Equal(t, 0, l.Len())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	list := b.Start().Enter(MapKey("list"), true)
	list.Assign(IndexKey(0), "a")
	list.Assign(IndexKey(1), "b")
	b.Start().Enter(MapKey("by"), false).Enter(MapKey("x"), false).Assign(MapKey("y"), 1)

	out, err := Encode(b.Root(), FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"list":["a","b"],"by":{"x":{"y":1}}}`, string(out))
}

func TestBuilder_PromotesSparseList(t *testing.T) {
	b := NewBuilder()

	items := b.Start().Enter(MapKey("items"), true)
	items.Assign(IndexKey(0), "first")
	items.Assign(IndexKey(3), "fourth")

	out, err := Encode(b.Root(), FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":{"0":"first","3":"fourth"}}`, string(out))
}

func TestBuilder_ReplacesScalarsInTheWay(t *testing.T) {
	b := NewBuilder()
	b.Start().Assign(MapKey("a"), "scalar")
	b.Start().Enter(MapKey("a"), false).Assign(MapKey("b"), true)
	b.Start().Ensure(MapKey("a"))
	b.Start().Ensure(MapKey("c"))

	out, err := Encode(b.Root(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"b\": true\n  },\n  \"c\": {}\n}", string(out))
}

func TestDecode_PreservesOrder(t *testing.T) {
	v, err := Decode([]byte(`{"users": {"2": {"name": "B"}, "1": {"name": "A"}}, "tags": ["x", 1, null, 2.5]}`))
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"users", "tags"}, m.Keys())

	users, _ := m.Get("users")
	assert.Equal(t, []string{"2", "1"}, users.(*Map).Keys())

	tags, _ := m.Get("tags")
	assert.Equal(t, []Value{"x", 1, nil, 2.5}, tags.(*List).Items())

	out, err := Encode(v, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"2": {`)
}

func TestDecode_YAML(t *testing.T) {
	v, err := Decode([]byte(`
b: 1
a:
  - x
  - y
`))
	require.NoError(t, err)
	assert.True(t, Equal(MapOf("b", 1, "a", NewList("x", "y")), v))

	empty, err := Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = Decode([]byte("a: [unterminated"))
	require.Error(t, err)
}

func TestEncode_YAMLKeepsOrder(t *testing.T) {
	out, err := Encode(MapOf("z", 1, "a", NewList("x"), "e", NewMap()), FormatYAML)
	require.NoError(t, err)
	text := string(out)
	assert.Less(t, strings.Index(text, "z: 1"), strings.Index(text, "a:"))
	assert.Less(t, strings.Index(text, "a:"), strings.Index(text, "e: {}"))

	back, err := Decode(out)
	require.NoError(t, err)
	assert.True(t, Equal(MapOf("z", 1, "a", NewList("x"), "e", NewMap()), back))

	_, err = Encode(nil, Format("toml"))
	require.Error(t, err)
}

func TestFrom(t *testing.T) {
	type address struct {
		City string `json:"city"`
	}

	type person struct {
		Name    string `json:"name"`
		Age     int
		Skip    string `json:"-"`
		Address *address `json:"address,omitempty"`
		Tags    []string
		hidden  bool
		Born    time.Time
	}

	born := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	v := From(map[string]any{
		"people": []person{{Name: "A", Age: 3, Skip: "x", Address: &address{City: "C"}, Tags: []string{"t"}, hidden: true, Born: born}},
		"count":  1,
	})

	want := MapOf(
		"count", 1,
		"people", NewList(MapOf(
			"name", "A",
			"Age", 3,
			"address", MapOf("city", "C"),
			"Tags", NewList("t"),
			"Born", born,
		)),
	)

	assert.True(t, Equal(want, v), "got %#v", v)
	assert.Nil(t, From(nil))

	m := NewMap()
	assert.Same(t, m, From(m))
}
