package codegen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/glade"
	"github.com/teranos/gladegen/logger"
)

// File permissions
const (
	DefaultFilePermissions = 0644
	ExecutablePermissions  = 0755
)

// Options configures one code writer.
type Options struct {
	Charset     string
	Copyright   string
	License     string // license text as Python comments (see ReadLicense)
	Threads     bool
	Interpreter string
	Indent      int              // spaces per level, defaults to 4
	Now         func() time.Time // defaults to time.Now
}

// Writer turns one markup document into one Python module.
type Writer struct {
	gladePath  string
	inputDir   string
	module     string
	outputPath string
	opts       Options
	enc        encoding.Encoding
	bank       *Bank
	log        *zap.SugaredLogger
}

// NewWriter derives the module name and output path from gladePath.
// The output module is written next to the document.
func NewWriter(gladePath string, opts Options) (*Writer, error) {
	if gladePath == "" {
		return nil, errors.MarkUsage(errors.New("no document given"))
	}

	inputDir, inputFile := filepath.Split(gladePath)
	module := glade.Normalize(strings.TrimSuffix(inputFile, filepath.Ext(inputFile)))
	if module == "" {
		return nil, errors.MarkUsage(errors.Newf("cannot derive a module name from %q", inputFile))
	}

	enc, err := LookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}
	if opts.Indent <= 0 {
		opts.Indent = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	bank, err := NewBank()
	if err != nil {
		return nil, err
	}

	return &Writer{
		gladePath:  gladePath,
		inputDir:   filepath.Clean(inputDir),
		module:     module,
		outputPath: filepath.Join(inputDir, module+".py"),
		opts:       opts,
		enc:        enc,
		bank:       bank,
		log:        logger.ComponentLogger("codegen"),
	}, nil
}

// GladePath returns the source document path.
func (w *Writer) GladePath() string { return w.gladePath }

// InputDir returns the directory holding the document and its outputs.
func (w *Writer) InputDir() string { return w.inputDir }

// Module returns the generated module name, without extension.
func (w *Writer) Module() string { return w.module }

// OutputPath returns where the generated module is written.
func (w *Writer) OutputPath() string { return w.outputPath }

func (w *Writer) data() *Data {
	return &Data{
		Interpreter: w.opts.Interpreter,
		Charset:     w.opts.Charset,
		Copyright:   w.opts.Copyright,
		License:     w.opts.License,
		Module:      w.module,
		Glade:       filepath.Base(w.gladePath),
		Date:        w.opts.Now().Format(time.ANSIC),
		Threads:     ThreadsStatement(w.opts.Threads),
		T:           strings.Repeat(" ", w.opts.Indent),
	}
}

// Render produces the module text for an already parsed document:
// header, fragments in document order, main, one instance line per root,
// then the trailer running the first root.
func (w *Writer) Render(doc *glade.Document) (string, error) {
	if len(doc.Roots) == 0 {
		return "", errors.MarkMalformedDocument(errors.New("document declares no widgets"))
	}

	data := w.data()
	var buf bytes.Buffer

	if err := w.bank.Render(&buf, TemplateHeader, data); err != nil {
		return "", err
	}

	for _, f := range doc.Fragments {
		fd := &FragmentData{Data: data, Class: f.Class, Root: f.Root, Handler: f.Handler}
		var name string
		switch f.Kind {
		case glade.FragmentClass:
			name = TemplateClass
		case glade.FragmentCallback:
			name = TemplateCallback
		case glade.FragmentCreation:
			name = TemplateCreation
		default:
			return "", errors.Newf("unknown fragment kind %d", f.Kind)
		}
		if err := w.bank.Render(&buf, name, fd); err != nil {
			return "", err
		}
	}

	if err := w.bank.Render(&buf, TemplateMain, data); err != nil {
		return "", err
	}
	for _, root := range doc.Roots {
		fd := &FragmentData{Data: data, Class: glade.Capitalize(root), Root: root, Instance: glade.Uncapitalize(root)}
		if err := w.bank.Render(&buf, TemplateInstance, fd); err != nil {
			return "", err
		}
	}

	first := doc.Roots[0]
	run := &FragmentData{Data: data, Class: glade.Capitalize(first), Root: first, Instance: glade.Uncapitalize(first)}
	if err := w.bank.Render(&buf, TemplateRun, run); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Generate parses the document and returns the encoded module.
// Nothing is written.
func (w *Writer) Generate() ([]byte, *glade.Document, error) {
	doc, err := glade.ParseFile(w.gladePath)
	if err != nil {
		return nil, nil, err
	}

	text, err := w.Render(doc)
	if err != nil {
		return nil, nil, err
	}

	out, err := Encode(w.enc, text)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to encode %s as %s", w.outputPath, w.opts.Charset)
	}

	w.log.Debugw("Generated module",
		logger.FieldDocument, w.gladePath,
		logger.FieldRoots, len(doc.Roots),
		logger.FieldSize, len(out))
	return out, doc, nil
}

// Write generates the module and stores it at OutputPath.
// On any failure the previous output, if any, is left untouched.
func (w *Writer) Write() (string, error) {
	out, _, err := w.Generate()
	if err != nil {
		return "", err
	}
	if err := WriteFileAtomic(w.outputPath, out, DefaultFilePermissions); err != nil {
		return "", err
	}
	w.log.Infow("Wrote module", logger.FieldOutput, w.outputPath)
	return w.outputPath, nil
}

// RenderHelper returns the support module text for the writer's options.
func (w *Writer) RenderHelper() ([]byte, error) {
	text, err := w.bank.RenderString(TemplateHelper, w.data())
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to create temporary file for %s", path))
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.MarkIO(errors.Wrapf(err, "failed to write %s", path))
	}
	if err = tmp.Close(); err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to write %s", path))
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to set permissions on %s", path))
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to write %s", path))
	}
	return nil
}
