package stl

import (
	"errors"
	"fmt"
)

// ErrParse matches every ParseError through errors.Is.
var ErrParse = errors.New("stl: malformed mesh data")

// ParseError describes why a buffer is not a well-formed STL mesh.
type ParseError struct {
	Format string // "binary" or "ascii"
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("stl: invalid %s data: %s", e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse as a match.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func binaryError(reason string, err error) error {
	return &ParseError{Format: "binary", Reason: reason, Err: err}
}

func asciiError(reason string, err error) error {
	return &ParseError{Format: "ascii", Reason: reason, Err: err}
}
