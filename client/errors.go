package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures for callers deciding whether the
// session is still usable.
type ErrorKind int

const (
	// ErrorTransport indicates a socket/connection failure. Fatal to the
	// session; the channels cannot be trusted afterwards.
	ErrorTransport ErrorKind = iota
	// ErrorProtocol indicates a protocol violation by the kernel, such as
	// an unknown execution state. Fatal.
	ErrorProtocol
	// ErrorTimeout indicates the bounded wait for idle expired.
	ErrorTimeout
	// ErrorCanceled indicates the caller's context was canceled.
	ErrorCanceled
)

// Error is a client failure tagged with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if err is an execution timeout.
func IsTimeout(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == ErrorTimeout
}

// IsCanceled returns true if err is a cancellation.
func IsCanceled(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == ErrorCanceled
}

// IsProtocolViolation returns true if err reports a kernel protocol
// violation.
func IsProtocolViolation(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == ErrorProtocol
}

// IsTransportFailure returns true if err is a connection-level failure.
func IsTransportFailure(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == ErrorTransport
}

func transportErr(err error) *Error {
	return &Error{Kind: ErrorTransport, Err: err}
}

func protocolErr(format string, args ...any) *Error {
	return &Error{Kind: ErrorProtocol, Err: fmt.Errorf(format, args...)}
}
