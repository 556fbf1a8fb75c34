package cast

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/tree"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		in   tree.Value
		spec Spec
		want tree.Value
	}{
		{"int from string", "42", Spec{Type: "int"}, 42},
		{"int truncates float", 3.9, Spec{Type: "int"}, 3},
		{"int from bool", true, Spec{Type: "int"}, 1},
		{"int8", 100, Spec{Type: "int8"}, int8(100)},
		{"int64 alias", "7", Spec{Type: "integer"}, int64(7)},
		{"uint16", "65535", Spec{Type: "uint16"}, uint16(65535)},
		{"float precision", 1.23456, Spec{Type: "float", Param: "2"}, 1.23},
		{"float no precision", "1.23456", Spec{Type: "float64"}, 1.23456},
		{"float32", 0.5, Spec{Type: "float32"}, float32(0.5)},
		{"bool yes", "yes", Spec{Type: "bool"}, true},
		{"bool off", "off", Spec{Type: "boolean"}, false},
		{"bool number", 2, Spec{Type: "bool"}, true},
		{"string int", 12, Spec{Type: "string"}, "12"},
		{"string float", 1.5, Spec{Type: "string"}, "1.5"},
		{"string null", nil, Spec{Type: "string"}, ""},
		{"string duration", 90 * time.Second, Spec{Type: "string"}, "1m30s"},
		{"duration string", "2h45m", Spec{Type: "duration"}, 2*time.Hour + 45*time.Minute},
		{"duration seconds", 1.5, Spec{Type: "duration"}, 1500 * time.Millisecond},
		{"date", "2024-03-05", Spec{Type: "date"}, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"date layout", "05/03/2024", Spec{Type: "date", Param: "02/01/2006"}, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"time unix", 0, Spec{Type: "time"}, time.Unix(0, 0).UTC()},
		{"case insensitive", "5", Spec{Type: "INT"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Cast(tt.in, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()

	got, err := r.Cast("x", Spec{Type: "list"})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.NewList("x"), got))

	got, err = r.Cast(tree.MapOf("a", 1, "b", 2), Spec{Type: "array"})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.NewList(1, 2), got))

	got, err = r.Cast(nil, Spec{Type: "list"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.(*tree.List).Len())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		in      tree.Value
		spec    Spec
		wantErr error
	}{
		{"unsupported type", 1, Spec{Type: "money"}, shapeerr.ErrUnsupportedCast},
		{"compound to int", tree.MapOf("a", 1), Spec{Type: "int"}, ErrIncompatible},
		{"compound to string", tree.NewList(), Spec{Type: "string"}, ErrIncompatible},
		{"compound to bool", tree.NewList(), Spec{Type: "bool"}, ErrIncompatible},
		{"unparseable number", "abc", Spec{Type: "int"}, nil},
		{"overflow", 300, Spec{Type: "int8"}, nil},
		{"negative unsigned", -1, Spec{Type: "uint"}, nil},
		{"bad precision", 1.0, Spec{Type: "float", Param: "x"}, nil},
		{"bad date", "yesterday", Spec{Type: "date"}, nil},
		{"bad bool", "maybe", Spec{Type: "bool"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Cast(tt.in, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shapeerr.ErrCast))

			var ce *shapeerr.CastError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.spec.Type, ce.Type)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("Upper", func(v tree.Value, param string) (tree.Value, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrIncompatible
		}

		return strings.ToUpper(s) + param, nil
	})

	assert.True(t, r.Has("upper"))

	got, err := r.Cast("abc", Spec{Type: "upper", Param: "!"})
	require.NoError(t, err)
	assert.Equal(t, "ABC!", got)

	_, err = r.Cast(1, Spec{Type: "upper"})
	assert.ErrorIs(t, err, shapeerr.ErrCast)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestRegistry_RegisterFunc(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterFunc("cents", func(amount float64) int64 { return int64(amount * 100) }))
	require.NoError(t, r.RegisterFunc("positive", func(n int) (int, bool) { return n, n > 0 }))
	require.NoError(t, r.RegisterFunc("tags", func(s string) ([]string, error) {
		if s == "" {
			return nil, errors.New("empty")
		}

		return strings.Split(s, ","), nil
	}))

	got, err := r.Cast(12, Spec{Type: "cents"})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), got)

	_, err = r.Cast(-1, Spec{Type: "positive"})
	assert.ErrorIs(t, err, ErrRejected)

	got, err = r.Cast("a,b", Spec{Type: "tags"})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.NewList("a", "b"), got))

	_, err = r.Cast("", Spec{Type: "tags"})
	assert.ErrorIs(t, err, shapeerr.ErrCast)

	_, err = r.Cast(tree.NewMap(), Spec{Type: "tags"})
	assert.ErrorIs(t, err, ErrIncompatible)

	assert.ErrorIs(t, r.RegisterFunc("x", 42), ErrCasterIsNotAFunction)
	assert.ErrorIs(t, r.RegisterFunc("x", func() int { return 1 }), ErrIsNotACaster)
	assert.ErrorIs(t, r.RegisterFunc("x", func(int) (int, string) { return 1, "" }), ErrIsNotACaster)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindFloat64, ParseKind("Double"))
	assert.Equal(t, KindUint32, ParseKind("uint32"))
	assert.Equal(t, Kind(0), ParseKind("money"))
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.True(t, IsFloatType("float"))
	assert.True(t, IsFloatType("float32"))
	assert.False(t, IsFloatType("int"))
	assert.Equal(t, 8, KindInt8.Bits())
	assert.Equal(t, "float:2", Spec{Type: "float", Param: "2"}.String())
}
