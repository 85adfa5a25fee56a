package listener

import "errors"

// Sentinel errors for listener resolution.
var (
	// ErrResolution matches every *ResolutionError via errors.Is.
	ErrResolution = errors.New("listener resolution failed")

	// ErrNilRef is returned when a nil reference or nil callable is resolved.
	ErrNilRef = errors.New("listener reference is nil")

	// ErrNoFactory is returned when a class reference has no constructor.
	ErrNoFactory = errors.New("class reference has no constructor")
)

// ResolutionError reports that a reference could not be turned into a
// listener value.
type ResolutionError struct {
	// Ref names the reference that failed.
	Ref string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return "failed to resolve listener " + e.Ref + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ResolutionError with ErrResolution.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
