package contextgen

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the pipeline. Callers test them with errors.Is.
var (
	// ErrInvalidRoot is returned when the requested root path does not exist.
	// It is fatal: no traversal starts and no output is written.
	ErrInvalidRoot = errors.New("root path does not exist")

	// ErrBinaryContent marks a file whose bytes look binary. The file keeps
	// its content block in the document, rendered as a placeholder.
	ErrBinaryContent = errors.New("binary content")
)

// Warning records a non-fatal failure encountered during a run. Warnings are
// accumulated and surfaced inside the document, never silently dropped.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}
