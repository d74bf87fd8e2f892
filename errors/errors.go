// Package errors provides error handling for gladegen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints printed by the CLI
//   - Error marks used to classify failures into generation error kinds
//
// Usage:
//
//	// Wrap with context
//	if err := os.Rename(tmp, out); err != nil {
//	    return errors.MarkIO(errors.Wrapf(err, "failed to write %s", out))
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "install GNU diffutils")
//
//	// Classify
//	if errors.IsMalformedDocument(err) {
//	    // no output was written
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Mark           = crdb.Mark
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Generation error kinds.
// Errors returned by gladegen packages carry exactly one of these marks;
// check them with errors.Is or the Is* helpers below.
var (
	// ErrUsage indicates bad flags, a missing document argument or an invalid option value
	ErrUsage = New("usage error")

	// ErrMissingTool indicates a required external program (diff, patch) is not installed
	ErrMissingTool = New("missing external tool")

	// ErrMalformedDocument indicates missing required attributes or unbalanced nesting
	ErrMalformedDocument = New("malformed document")

	// ErrIO indicates an open/read/write failure on the document, output or license file
	ErrIO = New("i/o error")

	// ErrUnsafeState indicates a generated output exists without its pristine snapshot
	ErrUnsafeState = New("unsafe state")

	// ErrMergeFailure indicates the hand-edit patch could not be reapplied
	ErrMergeFailure = New("merge failure")
)

// MarkUsage classifies err as a usage error. Returns nil for nil.
func MarkUsage(err error) error { return mark(err, ErrUsage) }

// MarkMissingTool classifies err as a missing-tool error. Returns nil for nil.
func MarkMissingTool(err error) error { return mark(err, ErrMissingTool) }

// MarkMalformedDocument classifies err as a malformed-document error. Returns nil for nil.
func MarkMalformedDocument(err error) error { return mark(err, ErrMalformedDocument) }

// MarkIO classifies err as an I/O error. Returns nil for nil.
func MarkIO(err error) error { return mark(err, ErrIO) }

// MarkUnsafeState classifies err as an unsafe-state error. Returns nil for nil.
func MarkUnsafeState(err error) error { return mark(err, ErrUnsafeState) }

// MarkMergeFailure classifies err as a merge failure. Returns nil for nil.
func MarkMergeFailure(err error) error { return mark(err, ErrMergeFailure) }

func mark(err, kind error) error {
	if err == nil {
		return nil
	}
	return Mark(err, kind)
}

// IsUsage checks if an error is or wraps ErrUsage
func IsUsage(err error) bool { return err != nil && Is(err, ErrUsage) }

// IsMissingTool checks if an error is or wraps ErrMissingTool
func IsMissingTool(err error) bool { return err != nil && Is(err, ErrMissingTool) }

// IsMalformedDocument checks if an error is or wraps ErrMalformedDocument
func IsMalformedDocument(err error) bool { return err != nil && Is(err, ErrMalformedDocument) }

// IsIO checks if an error is or wraps ErrIO
func IsIO(err error) bool { return err != nil && Is(err, ErrIO) }

// IsUnsafeState checks if an error is or wraps ErrUnsafeState
func IsUnsafeState(err error) bool { return err != nil && Is(err, ErrUnsafeState) }

// IsMergeFailure checks if an error is or wraps ErrMergeFailure
func IsMergeFailure(err error) bool { return err != nil && Is(err, ErrMergeFailure) }

// Kind returns the name of the generation error kind carried by err,
// or "error" when err is unclassified.
func Kind(err error) string {
	switch {
	case IsUsage(err):
		return "usage"
	case IsMissingTool(err):
		return "missing_tool"
	case IsMalformedDocument(err):
		return "malformed_document"
	case IsIO(err):
		return "io"
	case IsUnsafeState(err):
		return "unsafe_state"
	case IsMergeFailure(err):
		return "merge_failure"
	default:
		return "error"
	}
}

// ExitCode maps an error to the process exit status.
// 0 for nil, 2 for usage errors, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUsage(err):
		return 2
	default:
		return 1
	}
}
