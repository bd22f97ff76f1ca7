package rsgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ts2rs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
input: monaco.d.ts
out_dir: src
out_file: monaco.rs
comments: false
type_mappings:
  monaco.Thenable: Promise
reserved_words: [default]
frontmatter: "use crate::shim::*;"
strict: true
`)
	dir := filepath.Dir(path)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "monaco.d.ts"), cfg.Input)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.OutDir)
	assert.Equal(t, "monaco.rs", cfg.OutFile)
	require.NotNil(t, cfg.EmitComments)
	assert.False(t, *cfg.EmitComments)
	assert.Equal(t, map[string]string{"monaco.Thenable": "Promise"}, cfg.TypeMappings)
	assert.Equal(t, []string{"default"}, cfg.ReservedWords)
	assert.Equal(t, "use crate::shim::*;", cfg.Frontmatter)
	assert.True(t, cfg.Strict)
}

func TestLoadConfigFileAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "lib.d.ts")
	path := writeConfig(t, "input: "+abs+"\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Input)
	assert.Equal(t, "", cfg.OutDir)
	assert.Nil(t, cfg.EmitComments)
}

func TestLoadConfigFileEmpty(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfigFileUnknownField(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "input: a.d.ts\nout_dri: src\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "out_dri")
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfigFileGenerate(t *testing.T) {
	path := writeConfig(t, "input: lib.d.ts\nout_dir: out\nout_file: lib.rs\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.d.ts"), []byte("declare class Widget {}\n"), 0644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	_, err = FromConfig(cfg).Logger(discard).ToDir(cfg.OutDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "lib.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pub type Widget;")
}
