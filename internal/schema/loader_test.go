package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ShorthandMapping(t *testing.T) {
	yaml := `
mode: reshape
entries:
  users.$id.name: byId.$id
  "users.$.name=>names": list.*
  orders.$.total|float: totals.*
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	mode, err := f.ParsedMode()
	require.NoError(t, err)
	assert.Equal(t, ModeReshape, mode)

	require.Len(t, f.Entries, 3)

	// Mapping order is kept.
	assert.Equal(t, Pair("users.$id.name", "byId.$id"), f.Entries[0])
	assert.Equal(t, Pair("users.$.name=>names", "list.*"), f.Entries[1])
	assert.Equal(t, Pair("orders.$.total|float", "totals.*"), f.Entries[2])
}

func TestParse_EntryList(t *testing.T) {
	yaml := `
mode: select
entries:
  - users.$.name
  - input:
      keys: [users, $, "a.b"]
      type: float
      param: "3"
      policy: ignore
  - input:
      keys: orders.$id
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, "select", f.Mode)
	require.Len(t, f.Entries, 3)

	assert.Equal(t, Path("users.$.name"), f.Entries[0])

	in := f.Entries[1].Input
	assert.False(t, in.IsShorthand())
	require.NotNil(t, in.Keys)
	assert.True(t, in.Keys.IsList)
	assert.Equal(t, []string{"users", "$", "a.b"}, in.Keys.Segments)
	assert.Equal(t, "float", in.Type)
	assert.Equal(t, "3", in.Param)
	assert.Equal(t, "ignore", in.Policy)
	assert.Nil(t, f.Entries[1].Output)

	assert.Equal(t, PathKeys("orders.$id"), f.Entries[2].Input.Keys)
}

func TestParse_MixedPairsAndStructured(t *testing.T) {
	yaml := `
entries:
  - users.$id.name: byId.$id
  - input: {keys: users.$.name, name: names}
    output: {keys: "list.*", value: "@names"}
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, "reshape", f.Mode, "mode defaults to reshape")
	require.Len(t, f.Entries, 2)

	assert.Equal(t, Pair("users.$id.name", "byId.$id"), f.Entries[0])

	e := f.Entries[1]
	assert.Equal(t, "names", e.Input.Name)
	require.NotNil(t, e.Output)
	assert.Equal(t, "@names", e.Output.Value)
	assert.Equal(t, PathKeys("list.*"), e.Output.Keys)

	s, err := Compile(f.Raw, ModeReshape, DefaultDelimiters())
	require.NoError(t, err)
	assert.Len(t, s.Entries, 2)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"entries scalar", "entries: nope"},
		{"definition list", "entries:\n  - input: [a, b]"},
		{"keys mapping", "entries:\n  - input: {keys: {a: b}}"},
		{"invalid yaml", "entries: [a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParsedMode_Unknown(t *testing.T) {
	f, err := Parse([]byte("mode: transmogrify\nentries: []"))
	require.NoError(t, err)

	_, err = f.ParsedMode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_mode")
}

func TestWriteFileRoundTrip(t *testing.T) {
	f := &File{
		Mode: "reshape",
		Raw: raw(
			Pair("users.$id.name", "byId.$id"),
			RawEntry{
				Input:  RawDef{Keys: SegmentKeys("users", "$", "name"), Name: "names", Type: "string"},
				Output: &RawDef{Keys: PathKeys("list.*"), Value: "@names"},
			},
		),
	}

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, WriteFile(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "users.$id.name: byId.$id")

	back, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, back)
	assert.Equal(t, f.Fingerprint(), back.Fingerprint())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema file")
}

func TestFingerprint(t *testing.T) {
	a := raw(Pair("a", "b"))
	b := raw(Pair("a", "b"))
	c := raw(RawEntry{Input: RawDef{Keys: PathKeys("a")}, Output: &RawDef{Keys: PathKeys("b")}})
	d := raw(Pair("a.b", ""))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, raw(Pair("a", "b.c")).Fingerprint(), d.Fingerprint())
}
