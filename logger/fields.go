package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across gladegen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Inputs and outputs
	FieldDocument = "document"
	FieldOutput   = "output"
	FieldSnapshot = "snapshot"
	FieldBackup   = "backup"
	FieldHelper   = "helper"
	FieldCharset  = "charset"

	// Document structure
	FieldRoot     = "root"
	FieldClass    = "class"
	FieldHandler  = "handler"
	FieldRoots    = "roots"
	FieldFragment = "fragment"

	// Subprocesses
	FieldTool     = "tool"
	FieldArgs     = "args"
	FieldExitCode = "exit_code"

	// Timing and sizes
	FieldDurationMS = "duration_ms"
	FieldSize       = "size"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Driver struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewDriver() *Driver {
//	    return &Driver{
//	        logger: logger.ComponentLogger("merge"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
