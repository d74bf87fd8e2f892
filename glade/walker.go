package glade

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// Reserved markup vocabulary
const (
	elementWidget   = "widget"
	elementSignal   = "signal"
	elementProperty = "property"

	propertyCreationFunction = "creation_function"

	// Handlers with this prefix are provided by the runtime support module.
	frameworkHandlerPrefix = "gtk_"
)

// FragmentKind identifies what a fragment generates
type FragmentKind int

const (
	FragmentClass    FragmentKind = iota + 1 // one class per root widget
	FragmentCallback                         // signal handler stub
	FragmentCreation                         // custom widget factory stub
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentClass:
		return "class"
	case FragmentCallback:
		return "callback"
	case FragmentCreation:
		return "creation"
	default:
		return "unknown"
	}
}

// Fragment is one unit of generated code, in document order.
type Fragment struct {
	Kind    FragmentKind
	Root    string // id of the enclosing root widget
	Class   string // class name derived from Root
	Handler string // callback or creation function name (empty for classes)
	Signal  string // signal name (callbacks only)
	Widget  string // id of the widget declaring the signal or property
}

// Document is the result of walking a markup document.
type Document struct {
	Fragments []Fragment
	Roots     []string // root widget ids, document order
}

type state int

const (
	stateTop              state = iota // no widget open
	stateWidget                        // inside at least one widget
	stateCreationFunction              // inside a creation_function property
)

func (s state) String() string {
	switch s {
	case stateTop:
		return "top"
	case stateWidget:
		return "widget"
	case stateCreationFunction:
		return "creation_function"
	default:
		return "unknown"
	}
}

// rootScope owns the per-root registries. Every frame opened below a root
// shares its scope, so handlers are deduplicated per root only.
type rootScope struct {
	id        string
	class     string
	callbacks map[string]struct{}
	creations map[string]struct{}
}

type frame struct {
	id    string
	scope *rootScope
}

type walker struct {
	state state
	stack []frame
	text  strings.Builder
	doc   *Document
	log   *zap.SugaredLogger
}

// Parse walks a markup document and returns its fragments.
// Any structural violation is reported as a malformed-document error.
func Parse(r io.Reader) (*Document, error) {
	w := &walker{
		state: stateTop,
		doc:   &Document{},
		log:   logger.ComponentLogger("glade"),
	}

	scanner := NewScanner(r)
	for {
		ev, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := w.step(ev); err != nil {
			return nil, err
		}
	}

	if err := w.finish(); err != nil {
		return nil, err
	}
	return w.doc, nil
}

// ParseFile opens and walks the markup document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MarkIO(errors.Wrapf(err, "failed to open document %s", path))
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return doc, nil
}

func (w *walker) step(ev Event) error {
	switch ev.Kind {
	case EventStart:
		if w.state == stateCreationFunction {
			return malformed(ev, fmt.Sprintf("unexpected <%s> inside creation_function property", ev.Name))
		}
		switch ev.Name {
		case elementWidget:
			return w.enterWidget(ev)
		case elementSignal:
			return w.enterSignal(ev)
		case elementProperty:
			return w.enterProperty(ev)
		}
	case EventEnd:
		switch ev.Name {
		case elementWidget:
			return w.exitWidget(ev)
		case elementProperty:
			return w.exitProperty(ev)
		}
	case EventText:
		if w.state == stateCreationFunction {
			w.text.WriteString(ev.Text)
		}
	}
	return nil
}

func (w *walker) enterWidget(ev Event) error {
	id, class := ev.Attr("id"), ev.Attr("class")
	if id == "" || class == "" {
		return malformed(ev, "widget requires both id and class attributes")
	}

	if len(w.stack) == 0 {
		className := Capitalize(id)
		if className == "" {
			return malformed(ev, fmt.Sprintf("widget id %q has no usable identifier characters", id))
		}
		scope := &rootScope{
			id:        id,
			class:     className,
			callbacks: make(map[string]struct{}),
			creations: make(map[string]struct{}),
		}
		w.doc.Roots = append(w.doc.Roots, id)
		w.emit(Fragment{Kind: FragmentClass, Root: id, Class: className, Widget: id})
		w.stack = append(w.stack, frame{id: id, scope: scope})
	} else {
		w.stack = append(w.stack, frame{id: id, scope: w.top().scope})
	}

	w.state = stateWidget
	return nil
}

func (w *walker) enterSignal(ev Event) error {
	if len(w.stack) == 0 {
		return malformed(ev, "signal outside of a widget")
	}
	if ev.Attr("object") != "" {
		return nil
	}

	handler := ev.Attr("handler")
	if handler == "" {
		return malformed(ev, "signal requires a handler attribute")
	}
	if strings.HasPrefix(handler, frameworkHandlerPrefix) {
		return nil
	}
	signal := ev.Attr("name")
	if signal == "" {
		return malformed(ev, "signal requires a name attribute")
	}

	current := w.top()
	if _, seen := current.scope.callbacks[handler]; seen {
		return nil
	}
	current.scope.callbacks[handler] = struct{}{}
	w.emit(Fragment{
		Kind:    FragmentCallback,
		Root:    current.scope.id,
		Class:   current.scope.class,
		Handler: handler,
		Signal:  signal,
		Widget:  current.id,
	})
	return nil
}

func (w *walker) enterProperty(ev Event) error {
	if len(w.stack) == 0 {
		return malformed(ev, "property outside of a widget")
	}
	name := ev.Attr("name")
	if name == "" {
		return malformed(ev, "property requires a name attribute")
	}
	if name == propertyCreationFunction {
		w.state = stateCreationFunction
		w.text.Reset()
	}
	return nil
}

func (w *walker) exitProperty(ev Event) error {
	if w.state != stateCreationFunction {
		return nil
	}
	w.state = stateWidget

	handler := strings.TrimSpace(w.text.String())
	w.text.Reset()
	if handler == "" {
		return malformed(ev, "creation_function property is empty")
	}

	current := w.top()
	if _, seen := current.scope.creations[handler]; seen {
		return nil
	}
	current.scope.creations[handler] = struct{}{}
	w.emit(Fragment{
		Kind:    FragmentCreation,
		Root:    current.scope.id,
		Class:   current.scope.class,
		Handler: handler,
		Widget:  current.id,
	})
	return nil
}

func (w *walker) exitWidget(ev Event) error {
	if len(w.stack) == 0 {
		return malformed(ev, "unbalanced widget close")
	}
	w.stack = w.stack[:len(w.stack)-1]
	if len(w.stack) == 0 {
		w.state = stateTop
	}
	return nil
}

func (w *walker) finish() error {
	if len(w.stack) != 0 {
		return errors.MarkMalformedDocument(
			errors.Newf("document ended with %d unclosed widget(s)", len(w.stack)))
	}
	if len(w.doc.Roots) == 0 {
		return errors.WithHint(
			errors.MarkMalformedDocument(errors.New("document declares no widgets")),
			"is this a Glade-2 interface file?")
	}
	w.log.Debugw("Walked document",
		logger.FieldRoots, len(w.doc.Roots),
		"fragments", len(w.doc.Fragments))
	return nil
}

func (w *walker) top() frame {
	return w.stack[len(w.stack)-1]
}

func (w *walker) emit(f Fragment) {
	w.log.Debugw("Fragment",
		logger.FieldFragment, f.Kind.String(),
		logger.FieldRoot, f.Root,
		logger.FieldHandler, f.Handler)
	w.doc.Fragments = append(w.doc.Fragments, f)
}

func malformed(ev Event, msg string) error {
	return errors.MarkMalformedDocument(errors.Newf("line %d: %s", ev.Line, msg))
}
