package store

import (
	"errors"
	"fmt"
)

// CodeErrorKind discriminates the recoverable failures of code operations.
type CodeErrorKind int

const (
	CodeNotFound CodeErrorKind = iota
	CodeAlreadyExists
	CodeFullyUsed
	CodeExpired
	CodeAlreadyUsed
)

func (k CodeErrorKind) String() string {
	switch k {
	case CodeNotFound:
		return "code not found"
	case CodeAlreadyExists:
		return "code already exists"
	case CodeFullyUsed:
		return "code fully used"
	case CodeExpired:
		return "code expired"
	case CodeAlreadyUsed:
		return "code already used"
	default:
		return "unknown code error"
	}
}

// CodeError is the single tagged error returned by code operations. Call
// sites dispatch on Kind; Code carries the offending code text for messages.
type CodeError struct {
	Kind CodeErrorKind
	Code string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Code)
}

func newCodeError(kind CodeErrorKind, code string) *CodeError {
	return &CodeError{Kind: kind, Code: code}
}

// ErrKind reports whether err is a CodeError of the given kind.
func ErrKind(err error, kind CodeErrorKind) bool {
	var ce *CodeError
	return errors.As(err, &ce) && ce.Kind == kind
}
