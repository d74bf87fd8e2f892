package merge

import (
	"os"
	"path/filepath"

	"github.com/teranos/gladegen/codegen"
	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// HelperPath returns where the support module for w lives.
func HelperPath(w *codegen.Writer) string {
	return filepath.Join(w.InputDir(), codegen.HelperModuleName)
}

// writeHelper (re)writes the support module when it is missing or older
// than the generator executable. Returns the path when written.
func (d *Driver) writeHelper() (string, error) {
	path := HelperPath(d.writer)

	stale, err := helperStale(path, d.executable)
	if err != nil {
		return "", err
	}
	if !stale {
		d.log.Debugw("Support module is current", logger.FieldHelper, path)
		return "", nil
	}

	data, err := d.writer.RenderHelper()
	if err != nil {
		return "", err
	}
	if err := codegen.WriteFileAtomic(path, data, codegen.DefaultFilePermissions); err != nil {
		return "", err
	}

	d.log.Infow("Wrote support module", logger.FieldHelper, path)
	return path, nil
}

// helperStale reports whether the support module must be written.
// An unknown or unreadable executable never marks an existing module stale.
func helperStale(helperPath, executable string) (bool, error) {
	helper, err := os.Stat(helperPath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to stat %s", helperPath))
	}
	if !helper.Mode().IsRegular() {
		return false, errors.MarkIO(errors.Newf("%s is not a regular file", helperPath))
	}

	if executable == "" {
		return false, nil
	}
	exe, err := os.Stat(executable)
	if err != nil {
		logger.Debugw("Cannot stat generator executable", "path", executable, logger.FieldError, err)
		return false, nil
	}
	return exe.ModTime().After(helper.ModTime()), nil
}
