package codegen

import (
	"os"

	"github.com/teranos/gladegen/errors"
)

// ReadLicense loads a license file written in charset and returns it as
// Python comment lines. An empty path yields no license.
func ReadLicense(path, charset string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.MarkIO(errors.Wrapf(err, "failed to read license file %s", path))
	}

	enc, err := LookupCharset(charset)
	if err != nil {
		return "", err
	}
	text, err := Decode(enc, data)
	if err != nil {
		return "", errors.MarkIO(errors.Wrapf(err, "failed to read license file %s", path))
	}

	return CommentLicense(text), nil
}
