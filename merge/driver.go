// Package merge regenerates a module while carrying hand edits across runs.
//
// After every successful run the fresh generator output is kept as a
// pristine snapshot (<module>.py.orig). On the next run the difference
// between the snapshot and the current module is the user's edits; it is
// applied as a patch onto the regenerated module.
package merge

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/gladegen/codegen"
	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// File suffixes next to the generated module
const (
	SnapshotSuffix = ".orig"
	BackupSuffix   = ".bak"
	rejectSuffix   = ".rej"
)

// Options configures a Driver.
type Options struct {
	DiffCommand  string
	PatchCommand string
	Helper       bool   // write the support module when missing or stale
	Executable   string // generator binary whose mtime marks the support module stale; defaults to os.Executable
}

// Result describes what a run did.
type Result struct {
	Output   string
	Snapshot string
	Roots    int
	FirstRun bool   // no previous output existed
	Patched  bool   // hand edits were reapplied
	Helper   string // support module path when it was (re)written
}

// Driver runs one regeneration of one document.
type Driver struct {
	writer     *codegen.Writer
	tools      *Tools
	helper     bool
	executable string
	runID      string
	log        *zap.SugaredLogger
}

// NewDriver resolves the external tools up front so a missing program
// aborts before any file is touched.
func NewDriver(w *codegen.Writer, opts Options) (*Driver, error) {
	tools, err := FindTools(opts.DiffCommand, opts.PatchCommand)
	if err != nil {
		return nil, err
	}

	executable := opts.Executable
	if executable == "" {
		if exe, err := os.Executable(); err == nil {
			executable = exe
		}
	}

	runID := uuid.NewString()
	return &Driver{
		writer:     w,
		tools:      tools,
		helper:     opts.Helper,
		executable: executable,
		runID:      runID,
		log:        logger.ComponentLogger("merge").With(logger.FieldRunID, runID),
	}, nil
}

// Run regenerates the module. Every failure leaves the output and its
// snapshot as they were, except the unsafe-state path which additionally
// saves a backup copy of the output.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	out := d.writer.OutputPath()
	orig := out + SnapshotSuffix

	outExists, err := fileExists(out)
	if err != nil {
		return nil, err
	}
	origExists, err := fileExists(orig)
	if err != nil {
		return nil, err
	}

	if outExists && !origExists {
		return nil, d.unsafeState(out, orig)
	}

	fresh, doc, err := d.writer.Generate()
	if err != nil {
		return nil, err
	}

	result := &Result{Output: out, Snapshot: orig, Roots: len(doc.Roots), FirstRun: !outExists}

	if outExists {
		patched, err := d.merge(ctx, out, orig, fresh)
		if err != nil {
			return nil, err
		}
		result.Patched = patched
	} else {
		if err := d.replace(out, orig, fresh); err != nil {
			return nil, err
		}
	}

	if err := os.Chmod(out, codegen.ExecutablePermissions); err != nil {
		return nil, errors.MarkIO(errors.Wrapf(err, "failed to make %s executable", out))
	}

	if d.helper {
		helper, err := d.writeHelper()
		if err != nil {
			return nil, err
		}
		result.Helper = helper
	}

	d.log.Infow("Regenerated module",
		logger.FieldDocument, d.writer.GladePath(),
		logger.FieldOutput, out,
		logger.FieldRoots, result.Roots,
		"patched", result.Patched,
		"first_run", result.FirstRun)
	return result, nil
}

func (d *Driver) unsafeState(out, orig string) error {
	bak := out + BackupSuffix
	if err := copyFile(out, bak); err != nil {
		return errors.WithSecondaryError(
			errors.MarkUnsafeState(errors.Newf("%s exists but %s does not", out, orig)),
			err)
	}

	d.log.Warnw("Output without snapshot, saved backup",
		logger.FieldOutput, out,
		logger.FieldBackup, bak)

	err := errors.Newf("%s exists but %s does not; regenerating would overwrite your custom code", filepath.Base(out), filepath.Base(orig))
	err = errors.WithHintf(err, "please manually remove %s to regenerate it", out)
	err = errors.WithHintf(err, "a backup was saved to %s", bak)
	return errors.MarkUnsafeState(err)
}

// replace stores fresh output as both the module and its snapshot.
func (d *Driver) replace(out, orig string, fresh []byte) error {
	if err := codegen.WriteFileAtomic(out, fresh, codegen.ExecutablePermissions); err != nil {
		return err
	}
	return codegen.WriteFileAtomic(orig, fresh, codegen.DefaultFilePermissions)
}

// merge diffs the snapshot against the current module and replays the
// difference onto fresh output. It reports whether there were edits.
func (d *Driver) merge(ctx context.Context, out, orig string, fresh []byte) (bool, error) {
	dir := filepath.Dir(out)
	diffPath := filepath.Join(dir, ".gladegen-"+d.runID+".diff")
	defer removeQuietly(diffPath)

	diff, err := d.tools.Diff.Run(ctx, orig, out)
	if err != nil {
		return false, errors.MarkMergeFailure(err)
	}

	switch diff.ExitCode {
	case 0:
		d.log.Debugw("No hand edits", logger.FieldOutput, out)
		return false, d.replace(out, orig, fresh)
	case 1:
	default:
		return false, errors.MarkMergeFailure(errors.WithDetail(
			errors.Newf("%s exited with status %d", d.tools.Diff.Name, diff.ExitCode),
			diff.output()))
	}

	if err := os.WriteFile(diffPath, diff.Stdout, codegen.DefaultFilePermissions); err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to write %s", diffPath))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to create temporary file for %s", out))
	}
	target := tmp.Name()
	defer removeQuietly(target, target+rejectSuffix, target+SnapshotSuffix)

	if _, err := tmp.Write(fresh); err != nil {
		tmp.Close()
		return false, errors.MarkIO(errors.Wrapf(err, "failed to write %s", target))
	}
	if err := tmp.Close(); err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to write %s", target))
	}

	patch, err := d.tools.Patch.Run(ctx, "-i", diffPath, target)
	if err != nil {
		return false, errors.MarkMergeFailure(err)
	}
	if patch.ExitCode != 0 {
		err := errors.Newf("hand edits in %s could not be reapplied (%s exited with status %d)",
			filepath.Base(out), d.tools.Patch.Name, patch.ExitCode)
		err = errors.WithDetail(err, patch.output())
		err = errors.WithHintf(err, "%s and %s were left unchanged", out, orig)
		err = errors.WithHint(err, "keep custom code between #context markers, or move conflicting edits aside and rerun")
		return false, errors.MarkMergeFailure(err)
	}

	if err := os.Chmod(target, codegen.ExecutablePermissions); err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to set permissions on %s", target))
	}
	if err := os.Rename(target, out); err != nil {
		return false, errors.MarkIO(errors.Wrapf(err, "failed to replace %s", out))
	}
	if err := codegen.WriteFileAtomic(orig, fresh, codegen.DefaultFilePermissions); err != nil {
		return false, err
	}

	d.log.Infow("Reapplied hand edits", logger.FieldOutput, out, logger.FieldSize, len(diff.Stdout))
	return true, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.MarkIO(errors.Wrapf(err, "failed to stat %s", path))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to open %s", src))
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to stat %s", src))
	}

	outFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to create %s", dst))
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		return errors.MarkIO(errors.Wrapf(err, "failed to copy %s to %s", src, dst))
	}
	if err := outFile.Close(); err != nil {
		return errors.MarkIO(errors.Wrapf(err, "failed to write %s", dst))
	}
	return nil
}

func removeQuietly(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Debugw("Failed to remove temporary file", "path", p, logger.FieldError, err)
		}
	}
}
