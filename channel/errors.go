package channel

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed channel.
var ErrClosed = errors.New("channel: closed")

// TransportError wraps a socket-level failure with the channel and
// operation it occurred on. Transport errors are connection-fatal: the
// client cannot skip past them the way it skips one bad message.
type TransportError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("channel %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if err is a socket-level channel failure.
func IsTransportError(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// IsClosed returns true if err indicates the channel was closed locally.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
