package reshape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		assert.Equal(t, DefaultDelimiters(), cfg.Delimiters)
		assert.False(t, cfg.IgnoreNonExistingElements)
		assert.NotNil(t, cfg.Caster)
		assert.NotNil(t, cfg.Logger)
	})

	t.Run("partial delimiters are completed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
delimiters:
  segment: "/"
ignore_non_existing_elements: true
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/", cfg.Delimiters.Segment)
		assert.Equal(t, "$", cfg.Delimiters.Capture)
		assert.True(t, cfg.IgnoreNonExistingElements)
		assert.False(t, cfg.PreservePartlyExistingElements)
	})

	t.Run("invalid delimiters", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("delimiters:\n  segment: '\\'\n"), 0o644))

		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "invalid delimiters")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("delimiters: [\n"), 0o644))

		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "failed to parse config")
	})
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ignore_non_existing_elements: false\n"), 0o644))

	t.Setenv("TREE_RESHAPER_IGNORE_MISSING", "true")
	t.Setenv("TREE_RESHAPER_PRESERVE_PARTIAL", "1")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.IgnoreNonExistingElements)
	assert.True(t, cfg.PreservePartlyExistingElements)

	t.Setenv("TREE_RESHAPER_IGNORE_MISSING", "not-a-bool")

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.IgnoreNonExistingElements, "unparsable values are ignored")
	assert.True(t, cfg.PreservePartlyExistingElements)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Delimiters.Index = "#"
	cfg.PreservePartlyExistingElements = true

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Delimiters, loaded.Delimiters)
	assert.Equal(t, cfg.IgnoreNonExistingElements, loaded.IgnoreNonExistingElements)
	assert.Equal(t, cfg.PreservePartlyExistingElements, loaded.PreservePartlyExistingElements)
}
