package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplemented reports a parse step the builder deliberately does not
	// support yet (float literal splitting).
	ErrUnimplemented = errors.New("not implemented")
	// ErrMalformedStream reports an event stream that is not well-nested or
	// mixes token and structural kinds.
	ErrMalformedStream = errors.New("malformed event stream")
)

// FileError is a read failure of the root file or of a module file.
type FileError struct {
	Path   string
	Module string // a::b, empty for the root
	Err    error
}

func (e *FileError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("read %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("module %s: read %s: %v", e.Module, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedStream, fmt.Sprintf(format, args...))
}
