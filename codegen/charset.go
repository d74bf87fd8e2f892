package codegen

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/teranos/gladegen/errors"
)

// LookupCharset resolves a charset name to an encoding.
// IANA names are tried first, then WHATWG labels (which accept spellings
// like "utf8" or "latin1").
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.MarkUsage(errors.New("charset cannot be empty"))
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}

	return nil, errors.MarkUsage(errors.WithHint(
		errors.Newf("unknown charset %q", name),
		"use an IANA charset name such as utf-8 or iso-8859-1"))
}

// Encode converts text to the given encoding.
// A character the encoding cannot represent is an I/O error naming the
// line it appears on.
func Encode(enc encoding.Encoding, text string) ([]byte, error) {
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err == nil {
		return out, nil
	}

	line, r := firstUnencodable(enc, text)
	if r == utf8.RuneError {
		return nil, errors.MarkIO(errors.Wrap(err, "failed to encode output"))
	}
	return nil, errors.MarkIO(errors.WithHint(
		errors.Newf("line %d: character %q cannot be encoded in the output charset", line, r),
		"choose a charset that can represent it, e.g. --charset utf-8"))
}

// Decode converts text read in the given encoding to UTF-8.
func Decode(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode text")
	}
	return string(bytes.TrimPrefix(out, []byte("\ufeff"))), nil
}

func firstUnencodable(enc encoding.Encoding, text string) (int, rune) {
	line := 1
	for _, r := range text {
		if r == '\n' {
			line++
			continue
		}
		if _, err := enc.NewEncoder().String(string(r)); err != nil {
			return line, r
		}
	}
	return line, utf8.RuneError
}
