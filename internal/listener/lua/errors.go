package lua

import "errors"

// Errors for scripted listeners.
var (
	// ErrNoHandleFunc is returned when a script does not define handle.
	ErrNoHandleFunc = errors.New("lua script does not define a handle function")

	// ErrRejected is returned when handle returns false.
	ErrRejected = errors.New("lua script rejected the occurrence")

	// ErrEmptyScript is returned when compiling an empty script.
	ErrEmptyScript = errors.New("lua script is empty")
)

// ScriptError wraps an error raised while running a script.
type ScriptError struct {
	// Script is the script name.
	Script string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return "lua script " + e.Script + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
