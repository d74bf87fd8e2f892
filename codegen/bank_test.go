package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBank(t *testing.T) *Bank {
	t.Helper()
	bank, err := NewBank()
	require.NoError(t, err)
	return bank
}

func TestBankRendersEveryTemplate(t *testing.T) {
	bank := newBank(t)
	data := &Data{Module: "m", Glade: "m.glade", T: "    ", Threads: "pass"}
	fd := &FragmentData{Data: data, Class: "MainWindow", Root: "main_window", Handler: "on_quit", Instance: "main_window"}

	for _, name := range []string{
		TemplateHeader, TemplateClass, TemplateCallback, TemplateCreation,
		TemplateMain, TemplateInstance, TemplateRun, TemplateHelper,
	} {
		t.Run(name, func(t *testing.T) {
			out, err := bank.RenderString(name, fd)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestBankUnknownTemplate(t *testing.T) {
	_, err := newBank(t).RenderString("footer", &Data{})
	assert.Error(t, err)
}

func TestCallbackTemplate(t *testing.T) {
	fd := &FragmentData{Data: &Data{T: "    "}, Class: "MainWindow", Handler: "on_main_window_destroy"}

	out, err := newBank(t).RenderString(TemplateCallback, fd)
	require.NoError(t, err)

	assert.Equal(t, `    def on_main_window_destroy (self, widget, *args):
        #context MainWindow.on_main_window_destroy {
        print "on_main_window_destroy called with self.%s" % widget.get_name()
        #context MainWindow.on_main_window_destroy }

`, out)
}

func TestInstanceTemplateBindsName(t *testing.T) {
	fd := &FragmentData{Data: &Data{T: "    "}, Class: "MainWindow", Instance: "main_window"}

	out, err := newBank(t).RenderString(TemplateInstance, fd)
	require.NoError(t, err)
	assert.Equal(t, "    main_window = root_widgets['main_window'] = MainWindow()\n", out)
}

func TestCommentLicense(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"blank", "\n  \n", ""},
		{"plain", "GPL v2\nor later\n", "# GPL v2\n# or later"},
		{"already commented", "# GPL v2\n#\n", "# GPL v2\n#"},
		{"blank lines inside", "a\n\nb", "# a\n#\n# b"},
		{"crlf", "a\r\nb\r\n", "# a\n# b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CommentLicense(tt.input))
		})
	}
}

func TestThreadsStatement(t *testing.T) {
	assert.Equal(t, "pass", ThreadsStatement(false))
	assert.Equal(t, "gtk.gdk.threads_init()", ThreadsStatement(true))
}
