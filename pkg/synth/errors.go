package synth

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid generation config")

// UnsupportedShapeError reports a descriptor variant the synthesizer does not
// recognize. It is fatal to the call.
type UnsupportedShapeError struct {
	// Variant names the offending descriptor.
	Variant string
	// Path locates it within the value being built, e.g. "$[0].items[2]".
	Path string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported shape %s at %s", e.Variant, e.Path)
}

// ResolveError wraps a failure to resolve an Inferred descriptor.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("resolve inferred shape: %v", e.Err)
	}
	return fmt.Sprintf("resolve inferred shape %s: %v", e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// MismatchError reports a value that does not conform to its descriptor.
type MismatchError struct {
	Path     string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
}
