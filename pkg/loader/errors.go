package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedFlag is returned for a --flag token absent from the flag table.
	ErrUnrecognizedFlag = errors.New("unrecognized flag")
	// ErrInvalidArgument is returned for a dash-prefixed token that is neither
	// an assignment nor a flag.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFlagDefinition indicates the flag table itself is malformed.
	ErrInvalidFlagDefinition = errors.New("invalid flag definition")
	// ErrScript is the root of configuration script failures.
	ErrScript = errors.New("configuration script error")
	// ErrFlagTable indicates a flag-table file could not be decoded.
	ErrFlagTable = errors.New("invalid flag table")
)

// ScriptError reports a failure at a specific line of a configuration script.
type ScriptError struct {
	File string
	Line int
	Err  error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Is marks every ScriptError as an ErrScript.
func (e *ScriptError) Is(target error) bool {
	return target == ErrScript
}

func scriptErr(file string, line int, format string, args ...any) error {
	return &ScriptError{File: file, Line: line, Err: fmt.Errorf(format, args...)}
}
