package wire

import (
	"errors"
	"fmt"
)

// ErrorKind classifies codec failures.
type ErrorKind int

const (
	// ErrorMalformed indicates a frame list without the delimiter or with
	// too few frames after it.
	ErrorMalformed ErrorKind = iota
	// ErrorEncoding indicates a body frame that is not valid UTF-8.
	ErrorEncoding
	// ErrorPayload indicates a body frame that is not a JSON object.
	ErrorPayload
	// ErrorSignature indicates a received signature that does not match
	// the freshly computed one.
	ErrorSignature
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorMalformed:
		return "malformed"
	case ErrorEncoding:
		return "encoding"
	case ErrorPayload:
		return "payload"
	case ErrorSignature:
		return "signature"
	default:
		return fmt.Sprintf("wire.ErrorKind(%d)", int(k))
	}
}

// Error is a codec failure tagged with its kind.
//
// A dispatch loop skips the offending message and keeps consuming the
// channel; serializing an outbound message never produces one, so any
// Error on the send path is a programming error.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("wire: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a wire error and true, or false if err is not
// a wire error.
func KindOf(err error) (ErrorKind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return 0, false
}

// IsMalformed returns true if err is a wire error of kind ErrorMalformed.
func IsMalformed(err error) bool {
	k, ok := KindOf(err)
	return ok && k == ErrorMalformed
}

// IsSignatureMismatch returns true if err is a wire error of kind ErrorSignature.
func IsSignatureMismatch(err error) bool {
	k, ok := KindOf(err)
	return ok && k == ErrorSignature
}
