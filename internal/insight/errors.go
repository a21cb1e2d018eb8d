package insight

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree extraction and validation.
var (
	// ErrNoTree means no JSON object could be located in the generator output.
	ErrNoTree = errors.New("no JSON object found in output")

	// ErrMissingName means the tree root has no name.
	ErrMissingName = errors.New("tree root has no name")
)

// MalformedTreeError reports generator output that could not be turned into a
// tree. Raw preserves the offending content so callers can show it for
// diagnosis.
type MalformedTreeError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed insight tree: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedTreeError) Unwrap() error {
	return e.Err
}
