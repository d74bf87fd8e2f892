package merge

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// Tool is an external program resolved from a configured command line.
type Tool struct {
	Name    string   // role, e.g. "diff"
	Path    string   // resolved executable
	Args    []string // arguments from the configured command
	Package string   // package that usually provides it
}

// Tools holds the external programs a merge needs.
type Tools struct {
	Diff  *Tool
	Patch *Tool
}

// RunResult is the outcome of one tool invocation.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// FindTools resolves the diff and patch commands.
// Both are checked before anything is touched.
func FindTools(diffCommand, patchCommand string) (*Tools, error) {
	diff, err := ResolveTool("diff", diffCommand, "diffutils")
	if err != nil {
		return nil, err
	}
	patch, err := ResolveTool("patch", patchCommand, "patch")
	if err != nil {
		return nil, err
	}
	return &Tools{Diff: diff, Patch: patch}, nil
}

// ResolveTool splits command with shell quoting rules and looks up its
// program on PATH.
func ResolveTool(name, command, pkg string) (*Tool, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.MarkUsage(errors.Wrapf(err, "invalid %s command %q", name, command))
	}
	if len(words) == 0 {
		return nil, errors.MarkUsage(errors.Newf("%s command is empty", name))
	}

	path, err := exec.LookPath(words[0])
	if err != nil {
		err = errors.Wrapf(err, "required program %s could not be found", words[0])
		err = errors.WithHintf(err, "is the package %s installed?", pkg)
		err = errors.WithHint(err, "also, be sure it is in the PATH")
		return nil, errors.MarkMissingTool(err)
	}

	return &Tool{Name: name, Path: path, Args: words[1:], Package: pkg}, nil
}

// String returns the command line the tool runs with.
func (t *Tool) String() string {
	return shellquote.Join(append([]string{t.Path}, t.Args...)...)
}

// Run executes the tool with extra arguments appended.
// A non-zero exit status is reported in the result, not as an error;
// only failing to run the program at all is an error.
func (t *Tool) Run(ctx context.Context, extra ...string) (*RunResult, error) {
	args := append(append([]string{}, t.Args...), extra...)
	cmd := exec.CommandContext(ctx, t.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, errors.Wrapf(err, "failed to run %s", t.Name)
	}

	logger.Debugw("Ran external tool",
		logger.FieldTool, t.Name,
		logger.FieldArgs, strings.Join(args, " "),
		logger.FieldExitCode, result.ExitCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// output returns trimmed stderr, falling back to stdout.
func (r *RunResult) output() string {
	if s := strings.TrimSpace(string(r.Stderr)); s != "" {
		return s
	}
	return strings.TrimSpace(string(r.Stdout))
}
