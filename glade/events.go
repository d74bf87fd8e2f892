package glade

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/teranos/gladegen/errors"
)

// EventKind identifies a structural event in the document stream
type EventKind int

const (
	EventStart EventKind = iota + 1 // element opened
	EventEnd                        // element closed
	EventText                       // character data
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventText:
		return "text"
	default:
		return "unknown"
	}
}

// Event is one structural step of a markup document, in document order.
type Event struct {
	Kind  EventKind
	Name  string            // element name (start/end)
	Attrs map[string]string // attributes by local name (start only)
	Text  string            // character data (text only)
	Line  int               // line where the event ended
}

// Attr returns the named attribute, or "" when absent.
func (e Event) Attr(name string) string {
	return e.Attrs[name]
}

// Scanner is a pull-based iterator over the structural events of a markup
// document. It is finite and not restartable: once Next returns io.EOF
// every following call does too.
type Scanner struct {
	dec  *xml.Decoder
	src  *trackingReader
	done bool
}

// NewScanner returns a scanner reading from r.
// Documents declaring a non-UTF-8 encoding are transcoded on the fly.
func NewScanner(r io.Reader) *Scanner {
	src := &trackingReader{r: r}
	dec := xml.NewDecoder(src)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	return &Scanner{dec: dec, src: src}
}

// Next returns the next start, end or text event.
// Comments, processing instructions and directives are skipped.
// Syntax errors and premature end of input are malformed-document errors;
// failures of the underlying reader are I/O errors.
func (s *Scanner) Next() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}

	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.done = true
			return Event{}, io.EOF
		}
		if err != nil {
			s.done = true
			return Event{}, s.classify(err)
		}

		line, _ := s.dec.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			return Event{Kind: EventStart, Name: t.Name.Local, Attrs: attrs, Line: line}, nil
		case xml.EndElement:
			return Event{Kind: EventEnd, Name: t.Name.Local, Line: line}, nil
		case xml.CharData:
			return Event{Kind: EventText, Text: string(t), Line: line}, nil
		}
	}
}

func (s *Scanner) classify(err error) error {
	if s.src.err != nil && s.src.err != io.EOF {
		return errors.MarkIO(errors.Wrap(s.src.err, "failed to read document"))
	}
	return errors.MarkMalformedDocument(errors.Wrap(err, "invalid markup"))
}

// trackingReader remembers the last error returned by the wrapped reader so
// read failures can be told apart from syntax errors.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil {
		t.err = err
	}
	return n, err
}
