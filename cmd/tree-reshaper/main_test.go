package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setup resets the global flags and returns a command wired to buffers.
func setup(t *testing.T, schemaYAML, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()

	logger = zap.NewNop()
	configPath = filepath.Join(dir, defaultConfigFile)
	schemaPath = filepath.Join(dir, "schema.yaml")
	modeName = ""
	outputFormat = "json"
	dumpSchema = false

	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaYAML), 0o644))

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)

	return cmd, &out
}

const usersSchema = `
mode: reshape
entries:
  users.$id.name: byId.$id
`

func TestRunConvert_Stdin(t *testing.T) {
	cmd, out := setup(t, usersSchema, `{"users": {"1": {"name": "A"}, "2": {"name": "B"}}}`)

	require.NoError(t, runConvert(cmd, nil))
	assert.JSONEq(t, `{"byId": {"1": "A", "2": "B"}}`, out.String())
}

func TestRunConvert_FilesAndYAML(t *testing.T) {
	cmd, out := setup(t, usersSchema, "")

	dir := t.TempDir()
	input := filepath.Join(dir, "in.yaml")
	output := filepath.Join(dir, "out.yaml")

	require.NoError(t, os.WriteFile(input, []byte("users:\n  \"1\":\n    name: A\n"), 0o644))

	outputFormat = "yaml"

	require.NoError(t, runConvert(cmd, []string{input, output}))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "byId:\n    \"1\": A\n", string(data))
}

func TestRunConvert_ModeOverride(t *testing.T) {
	cmd, out := setup(t, "entries:\n  - users.$.age\n", `{"users": {"1": {"name": "A", "age": 3}}}`)

	modeName = "prune"

	require.NoError(t, runConvert(cmd, []string{"-"}))
	assert.JSONEq(t, `{"users": {"1": {"name": "A"}}}`, out.String())
}

func TestRunConvert_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func()
		stdin   string
		want    string
	}{
		{"bad format", func() { outputFormat = "xml" }, `{}`, "unknown output format"},
		{"bad mode", func() { modeName = "filter" }, `{}`, "unknown mode"},
		{"no schema", func() { schemaPath = "" }, `{}`, "--schema is required"},
		{"bad input", nil, `{"a": [`, "failed to parse input"},
		{"missing key", nil, `{"users": {"1": {}}}`, "missing element at users.1.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := setup(t, usersSchema, tt.stdin)
			if tt.prepare != nil {
				tt.prepare()
			}

			assert.ErrorContains(t, runConvert(cmd, nil), tt.want)
		})
	}
}

func TestRunConvert_Config(t *testing.T) {
	cmd, out := setup(t, "entries:\n  users/$/name: names/*\n", `{"users": {"1": {"name": "A"}, "2": {}}}`)

	require.NoError(t, os.WriteFile(configPath, []byte(`
delimiters:
  segment: /
ignore_non_existing_elements: true
`), 0o644))

	require.NoError(t, runConvert(cmd, nil))
	assert.JSONEq(t, `{"names": ["A", null]}`, out.String())
}

func TestRunCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, out := setup(t, usersSchema, "")

		require.NoError(t, runCheck(cmd, nil))
		assert.Contains(t, out.String(), "OK (reshape, 1 entries)")
	})

	t.Run("dump", func(t *testing.T) {
		cmd, out := setup(t, usersSchema, "")
		dumpSchema = true

		require.NoError(t, runCheck(cmd, nil))
		assert.Contains(t, out.String(), "0: users.$id.name -> byId.$id")
	})

	t.Run("errors with suggestions", func(t *testing.T) {
		cmd, out := setup(t, "entries:\n  users.$id.name: byId.$ix\n", "")

		err := runCheck(cmd, nil)
		require.ErrorContains(t, err, "1 error(s) found")
		assert.Contains(t, out.String(), "unresolved_capture")
		assert.Contains(t, out.String(), `did you mean "id"?`)
	})

	t.Run("warnings", func(t *testing.T) {
		cmd, out := setup(t, "mode: select\nentries:\n  - users.$.name=>names\n", "")

		require.NoError(t, runCheck(cmd, nil))
		assert.Contains(t, out.String(), "warning:")
		assert.Contains(t, out.String(), "ignored_stream_name")
	})
}
