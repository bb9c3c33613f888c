// Package channel owns the two kernel message channels: the addressable
// shell channel execute requests go out on, and the subscribe-all iopub
// channel kernel broadcasts come back on. It hides per-channel socket
// setup behind one Open call and adds a bounded readiness check on top of
// ZeroMQ's blocking receive.
package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"

	"github.com/pithecene-io/jute/connect"
)

// Kind selects which kernel channel to open.
type Kind string

const (
	// KindShell is the connection-oriented request channel (DEALER).
	KindShell Kind = "shell"
	// KindIOPub is the broadcast channel (SUB, subscribed to everything).
	KindIOPub Kind = "iopub"
)

// recvBuffer bounds how many undispatched messages the receive pump holds
// before it blocks on the socket.
const recvBuffer = 64

// closeGrace caps how long Close waits for the receive pump to drain,
// standing in for a socket linger period.
const closeGrace = time.Second

type recvResult struct {
	frames [][]byte
	err    error
}

// Channel is one duplex kernel message channel. It is private to a single
// client: Ready and Recv share an unsynchronized peek slot and must be
// called from one goroutine.
type Channel struct {
	kind   Kind
	sock   zmq4.Socket
	cancel context.CancelFunc

	recvC   chan recvResult
	pumped  chan struct{}
	pending *recvResult
}

// Open dials the channel of the given kind at the descriptor's endpoint.
// KindShell opens a DEALER socket; KindIOPub opens a SUB socket with an
// empty-prefix subscription so every topic is received.
func Open(ctx context.Context, kind Kind, desc *connect.Descriptor) (*Channel, error) {
	var port string
	switch kind {
	case KindShell:
		port = connect.PortShell
	case KindIOPub:
		port = connect.PortIOPub
	default:
		return nil, fmt.Errorf("channel: unknown kind %q", kind)
	}

	endpoint, err := desc.Endpoint(port)
	if err != nil {
		return nil, err
	}

	sockCtx, cancel := context.WithCancel(ctx)

	var sock zmq4.Socket
	switch kind {
	case KindShell:
		sock = zmq4.NewDealer(sockCtx)
	case KindIOPub:
		sock = zmq4.NewSub(sockCtx)
	}

	if err := sock.Dial(endpoint); err != nil {
		cancel()
		return nil, &TransportError{Kind: kind, Op: "dial " + endpoint, Err: err}
	}
	if kind == KindIOPub {
		if err := sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
			_ = sock.Close()
			cancel()
			return nil, &TransportError{Kind: kind, Op: "subscribe", Err: err}
		}
	}

	c := &Channel{
		kind:   kind,
		sock:   sock,
		cancel: cancel,
		recvC:  make(chan recvResult, recvBuffer),
		pumped: make(chan struct{}),
	}
	go c.pump(sockCtx)
	return c, nil
}

// pump moves messages from the blocking socket receive into recvC so
// Ready can wait with a bounded timeout. It exits on the first socket
// error, forwarding it so Recv reports the failure.
func (c *Channel) pump(ctx context.Context) {
	defer close(c.pumped)
	for {
		msg, err := c.sock.Recv()
		if err != nil {
			select {
			case c.recvC <- recvResult{err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case c.recvC <- recvResult{frames: msg.Frames}:
		case <-ctx.Done():
			return
		}
	}
}

// Send transmits all frames as one atomic multipart message.
func (c *Channel) Send(frames [][]byte) error {
	if err := c.sock.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		return &TransportError{Kind: c.kind, Op: "send", Err: err}
	}
	return nil
}

// Ready reports whether a complete message is available, waiting at most
// timeout. A message surfaced here is buffered for the next Recv, so
// Ready followed by Recv never blocks.
func (c *Channel) Ready(timeout time.Duration) bool {
	if c.pending != nil {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case res := <-c.recvC:
		c.pending = &res
		return true
	case <-c.pumped:
		// Pump exited; report anything it left behind, else not ready.
		select {
		case res := <-c.recvC:
			c.pending = &res
			return true
		default:
			return false
		}
	case <-timer.C:
		return false
	}
}

// Recv blocks until one complete multipart message is available and
// returns its frames. Socket failures surface as TransportError; a
// locally closed channel surfaces as ErrClosed.
func (c *Channel) Recv() ([][]byte, error) {
	var res recvResult
	if c.pending != nil {
		res = *c.pending
		c.pending = nil
	} else {
		select {
		case res = <-c.recvC:
		case <-c.pumped:
			select {
			case res = <-c.recvC:
			default:
				return nil, ErrClosed
			}
		}
	}
	if res.err != nil {
		return nil, &TransportError{Kind: c.kind, Op: "recv", Err: res.err}
	}
	return res.frames, nil
}

// Close tears the channel down, giving the receive pump a bounded grace
// period to exit rather than blocking indefinitely.
func (c *Channel) Close() error {
	c.cancel()
	err := c.sock.Close()
	select {
	case <-c.pumped:
	case <-time.After(closeGrace):
	}
	if err != nil {
		return &TransportError{Kind: c.kind, Op: "close", Err: err}
	}
	return nil
}
