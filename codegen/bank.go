package codegen

import (
	"io"
	"strings"
	"text/template"

	"github.com/teranos/gladegen/errors"
)

// Data holds the per-document values shared by every template.
type Data struct {
	Interpreter string
	Charset     string
	Copyright   string
	License     string // already commented, may be empty
	Module      string
	Glade       string // document base name
	Date        string
	Threads     string // statement run before the main loop
	T           string // one indentation level
}

// FragmentData extends Data with the values of one generated fragment.
type FragmentData struct {
	*Data
	Class    string
	Root     string
	Handler  string
	Instance string
}

// Bank is the fixed set of parsed templates.
type Bank struct {
	templates *template.Template
}

var bankSources = []struct {
	name string
	text string
}{
	{TemplateHeader, headerTemplate},
	{TemplateClass, classTemplate},
	{TemplateCallback, callbackTemplate},
	{TemplateCreation, creationTemplate},
	{TemplateMain, mainTemplate},
	{TemplateInstance, instanceTemplate},
	{TemplateRun, runTemplate},
	{TemplateHelper, helperTemplate},
}

// NewBank parses every template.
func NewBank() (*Bank, error) {
	root := template.New("gladegen").Option("missingkey=error")
	for _, src := range bankSources {
		if _, err := root.New(src.name).Parse(src.text); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s template", src.name)
		}
	}
	return &Bank{templates: root}, nil
}

// Render executes the named template into w.
func (b *Bank) Render(w io.Writer, name string, data any) error {
	t := b.templates.Lookup(name)
	if t == nil {
		return errors.Newf("unknown template %q", name)
	}
	if err := t.Execute(w, data); err != nil {
		return errors.Wrapf(err, "failed to render %s template", name)
	}
	return nil
}

// RenderString executes the named template and returns the text.
func (b *Bank) RenderString(name string, data any) (string, error) {
	var sb strings.Builder
	if err := b.Render(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ThreadsStatement returns the statement the support module runs before
// entering the main loop.
func ThreadsStatement(threads bool) string {
	if threads {
		return "gtk.gdk.threads_init()"
	}
	return "pass"
}

// CommentLicense turns license text into Python comment lines.
// Lines already starting with '#' are kept as they are.
func CommentLicense(text string) string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"):
		case strings.TrimSpace(line) == "":
			lines[i] = "#"
		default:
			lines[i] = "# " + line
		}
	}
	return strings.Join(lines, "\n")
}
