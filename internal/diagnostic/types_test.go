package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-reshaper/internal/shapeerr"
)

func TestDiagnostics_Err(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Err())
	assert.True(t, d.IsValid())

	d.AddWarning("unused_stream", "stream is never referenced", 0, "a.b=>x")
	require.NoError(t, d.Err(), "warnings alone do not fail")

	d.AddError("unresolved_stream", `stream "nme" is not declared`, 1, "out.@nme", "name")
	d.AddError("empty_keys", "key list is empty", NoEntry, "")

	err := d.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerr.ErrSchema))

	var se *shapeerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "unresolved_stream", se.Code)
	assert.Equal(t, 1, se.Entry)
	assert.Contains(t, se.Error(), `did you mean "name"?`)
	assert.Contains(t, err.Error(), "[empty_keys]")
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "full",
			diag: Diagnostic{Code: "bad", Message: "broken", Entry: 2, Path: "a.b"},
			want: "[entry 2] a.b: [bad] broken",
		},
		{
			name: "no entry",
			diag: Diagnostic{Code: "bad", Message: "broken", Entry: NoEntry},
			want: "[bad] broken",
		},
		{
			name: "message only",
			diag: Diagnostic{Message: "broken", Entry: NoEntry},
			want: "broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}

	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
