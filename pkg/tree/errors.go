package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrMismatchedElement matches every *MismatchError.
	ErrMismatchedElement = errors.New("mismatched openElement/closeElement calls")

	// ErrFlush matches every *FlushError.
	ErrFlush = errors.New("attribute set after opening tag was flushed")

	// ErrInvalidName is returned by OpenElement for an empty tag name.
	ErrInvalidName = errors.New("element name must not be empty")
)

// MismatchError reports closeElement calls without a matching openElement,
// or a session finalized with elements still open.
type MismatchError struct {
	// Recent is the tag name of the most recently opened element that is
	// still open, or empty when none is known.
	Recent string
}

func (e *MismatchError) Error() string {
	msg := "tree was executed but had mismatched openElement/closeElement calls."
	if e.Recent != "" {
		msg += fmt.Sprintf(" Most recent opened element was '%s'.", e.Recent)
	}
	return msg
}

// Is makes errors.Is(err, ErrMismatchedElement) succeed.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatchedElement
}

// FlushError reports an attribute set after its element's opening tag was
// already written out.
type FlushError struct {
	// Attr is the offending attribute name.
	Attr string
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("cannot set the '%s' attribute after the element is closed or a child node has been appended", e.Attr)
}

// Is makes errors.Is(err, ErrFlush) succeed.
func (e *FlushError) Is(target error) bool {
	return target == ErrFlush
}

// IsContractError reports whether err is a caller bug rather than an I/O
// failure from the underlying sink.
func IsContractError(err error) bool {
	return errors.Is(err, ErrMismatchedElement) ||
		errors.Is(err, ErrFlush) ||
		errors.Is(err, ErrInvalidName)
}
