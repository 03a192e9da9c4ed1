package sniff

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat matches every UnsupportedFormatError via errors.Is.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError reports that an upload is not a recognizable trial
// balance. Err holds the underlying reader failure, if any.
type UnsupportedFormatError struct {
	Reason string
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported format: %s: %v", e.Reason, e.Err)
	}
	return "unsupported format: " + e.Reason
}

// Is makes errors.Is(err, ErrUnsupportedFormat) true.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

func (e *UnsupportedFormatError) Unwrap() error {
	return e.Err
}

func unsupported(reason string, err error) error {
	return &UnsupportedFormatError{Reason: reason, Err: err}
}
