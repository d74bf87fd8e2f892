package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gladegen/errors"
)

func TestWriteStarterRoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg := Defaults()
	cfg.Generate.Charset = "iso-8859-1"
	cfg.Generate.Indent = 2

	path, err := WriteStarter(dir, cfg, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProjectConfigName), path)

	assert.Equal(t, cfg, loadFile(t, path))
}

func TestWriteStarterRefusesOverwrite(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := WriteStarter(dir, Defaults(), false)
	require.NoError(t, err)

	_, err = WriteStarter(dir, Defaults(), false)
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestWriteStarterRotatesBackups(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigName)

	for i := 1; i <= 5; i++ {
		cfg := Defaults()
		cfg.Generate.Indent = i
		_, err := WriteStarter(dir, cfg, true)
		require.NoError(t, err)
	}

	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		_, err := os.Stat(path + suffix)
		assert.NoError(t, err, "expected %s", suffix)
	}
	_, err := os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 5, loadFile(t, path).Generate.Indent)
	assert.Equal(t, 4, loadFile(t, path+".back1").Generate.Indent)
	assert.Equal(t, 2, loadFile(t, path+".back3").Generate.Indent)
}

func TestEncode(t *testing.T) {
	cfg := Defaults()
	cfg.Generate.Charset = "utf-8"

	out, err := Encode(cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "[generate]")
	assert.Contains(t, out, `charset = "utf-8"`)
	assert.Contains(t, out, "[merge]")
	assert.Contains(t, out, `diff_command = "diff -U1"`)
	assert.Contains(t, out, "[watch]")
	assert.Contains(t, out, "debounce_ms = 300")
}
