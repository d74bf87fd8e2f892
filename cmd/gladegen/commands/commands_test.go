package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gladegen/config"
	"github.com/teranos/gladegen/errors"
)

const mainWindowDoc = `<?xml version="1.0" standalone="no"?>
<!DOCTYPE glade-interface SYSTEM "http://glade.gnome.org/glade-2.0.dtd">
<glade-interface>
<widget class="GtkWindow" id="main_window">
  <signal name="destroy" handler="on_main_window_destroy"/>
  <child>
    <widget class="GtkButton" id="quit_button">
      <signal name="clicked" handler="gtk_main_quit"/>
    </widget>
  </child>
</widget>
</glade-interface>
`

// isolate runs the command line in an empty working directory with no
// config files, locale or GLADEGEN_* variables in effect.
func isolate(t *testing.T) string {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	t.Chdir(work)

	saved := config.SystemConfigPath
	config.SystemConfigPath = filepath.Join(home, "no-system-config.toml")
	t.Cleanup(func() { config.SystemConfigPath = saved })

	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG", "NO_COLOR",
		"GLADEGEN_CHARSET", "GLADEGEN_COPYRIGHT", "GLADEGEN_DIFF", "GLADEGEN_PATCH",
		"GLADEGEN_GENERATE_CHARSET", "GLADEGEN_GENERATE_LICENSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return work
}

func writeDoc(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireTools(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"diff", "patch"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("Skipping test - %s is not installed", tool)
		}
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestVersionJSON(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "commit_hash")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no document", nil},
		{"two documents", []string{"a.glade", "b.glade"}},
		{"unknown flag", []string{"--frobnicate", "a.glade"}},
		{"generate without document", []string{"generate"}},
		{"unknown charset", []string{"--charset", "klingon", "main_window.glade"}},
		{"bad inspect format", []string{"inspect", "-o", "xml", "main_window.glade"}},
		{"missing explicit config", []string{"--config", "nowhere.toml", "main_window.glade"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := isolate(t)
			writeDoc(t, work, mainWindowDoc)

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsUsage(err), "kind %s: %v", errors.Kind(err), err)
			assert.Equal(t, 2, errors.ExitCode(err))
			assert.Equal(t, []string{"main_window.glade"}, listDir(t, work), "nothing written")
		})
	}
}

func TestMissingLicenseTouchesNothing(t *testing.T) {
	work := isolate(t)
	doc := writeDoc(t, work, mainWindowDoc)

	_, _, err := execute(t, "--license", filepath.Join(work, "COPYING"), doc)
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
	assert.Equal(t, 1, errors.ExitCode(err))
	assert.Equal(t, []string{"main_window.glade"}, listDir(t, work))
}

func TestGenerate(t *testing.T) {
	requireTools(t)
	work := isolate(t)
	doc := writeDoc(t, work, mainWindowDoc)
	require.NoError(t, os.WriteFile(filepath.Join(work, "COPYING"), []byte("Distributed under the GPL.\n"), 0644))

	stdout, _, err := execute(t, "generate", "--copyright", "Copyright (C) 2004 Sandino Flores", "--license", "COPYING", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+filepath.Join(work, "main_window.py"))
	assert.Contains(t, stdout, "SimpleGladeApp.py")

	out, err := os.ReadFile(filepath.Join(work, "main_window.py"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Copyright (C) 2004 Sandino Flores\n")
	assert.Contains(t, string(out), "# Distributed under the GPL.\n")
	assert.Contains(t, string(out), "# -*- coding: utf-8 -*-")
	assert.Contains(t, string(out), "class MainWindow (SimpleGladeApp.SimpleGladeApp):")
	assert.NotContains(t, string(out), "def gtk_main_quit")

	// The bare form regenerates
	config.Reset()
	stdout, _, err = execute(t, doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Regenerated")
}

func TestGenerateUnsafeState(t *testing.T) {
	requireTools(t)
	work := isolate(t)
	doc := writeDoc(t, work, mainWindowDoc)
	require.NoError(t, os.WriteFile(filepath.Join(work, "main_window.py"), []byte("# mine\n"), 0644))

	_, _, err := execute(t, doc)
	require.Error(t, err)
	assert.True(t, errors.IsUnsafeState(err))
	assert.Equal(t, 1, errors.ExitCode(err))
	assert.FileExists(t, filepath.Join(work, "main_window.py.bak"))
}

func TestCheck(t *testing.T) {
	requireTools(t)
	work := isolate(t)
	doc := writeDoc(t, work, mainWindowDoc)

	_, _, err := execute(t, "check", doc)
	require.Error(t, err, "never generated")
	assert.Equal(t, 1, errors.ExitCode(err))

	_, _, err = execute(t, "generate", doc)
	require.NoError(t, err)

	stdout, _, err := execute(t, "check", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")

	writeDoc(t, work, strings.Replace(mainWindowDoc,
		`<signal name="destroy" handler="on_main_window_destroy"/>`,
		`<signal name="destroy" handler="on_main_window_destroy"/>
  <signal name="show" handler="on_main_window_show"/>`, 1))

	stdout, _, err = execute(t, "check", doc)
	require.Error(t, err)
	assert.False(t, errors.IsUsage(err))
	assert.Equal(t, 1, errors.ExitCode(err))
	assert.Contains(t, stdout, "+    def on_main_window_show (self, widget, *args):")
}

func TestInspect(t *testing.T) {
	work := isolate(t)
	doc := writeDoc(t, work, mainWindowDoc)

	stdout, _, err := execute(t, "inspect", "-o", "yaml", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: main_window")
	assert.Contains(t, stdout, "class: MainWindow")
	assert.Contains(t, stdout, "instance: main_window")
	assert.Contains(t, stdout, "- on_main_window_destroy")
	assert.NotContains(t, stdout, "gtk_main_quit")

	stdout, _, err = execute(t, "inspect", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "MainWindow")
	assert.Contains(t, stdout, "1 window, 1 callback, 0 creation functions")

	assert.Equal(t, []string{"main_window.glade"}, listDir(t, work))
}

func TestInspectMalformed(t *testing.T) {
	work := isolate(t)
	doc := writeDoc(t, work, `<glade-interface><signal name="clicked" handler="on_click"/></glade-interface>`)

	_, _, err := execute(t, "inspect", doc)
	require.Error(t, err)
	assert.True(t, errors.IsMalformedDocument(err))
	assert.Equal(t, 1, errors.ExitCode(err))
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[generate]")
	assert.Contains(t, stdout, `charset = "utf-8"`)
	assert.Contains(t, stdout, `diff_command = "diff -U1"`)

	config.Reset()
	t.Setenv("GLADEGEN_COPYRIGHT", "Copyright (C) 2004 Example")
	stdout, _, err = execute(t, "config", "show", "--sources", "--charset", "iso-8859-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--charset")
	assert.Contains(t, stdout, "GLADEGEN_COPYRIGHT")
	assert.Contains(t, stdout, "built-in default")
}

func TestExplicitConfig(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[generate]\ncopyright = \"Copyright (C) 2004 Custom\"\n"), 0644))

	stdout, _, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, `copyright = "Copyright (C) 2004 Custom"`)
}

func TestConfigInit(t *testing.T) {
	work := isolate(t)

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(work, config.ProjectConfigName))
	assert.FileExists(t, filepath.Join(work, config.ProjectConfigName))

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(work, config.ProjectConfigName+".back1"))
}

func TestPrintError(t *testing.T) {
	err := errors.WithHint(errors.WithDetail(errors.New("hand edits could not be reapplied"), "1 out of 1 hunk FAILED"), "keep custom code between #context markers")

	var buf bytes.Buffer
	PrintError(&buf, err)
	assert.Contains(t, buf.String(), "hand edits could not be reapplied")
	assert.Contains(t, buf.String(), "1 out of 1 hunk FAILED")
	assert.Contains(t, buf.String(), "keep custom code between #context markers")

	buf.Reset()
	PrintError(&buf, nil)
	assert.Empty(t, buf.String())
}
