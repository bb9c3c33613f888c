// Package client implements the execution client: it owns the session,
// submits execute requests on the shell channel, and advances the
// execution-state machine from iopub broadcast traffic.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pithecene-io/jute/channel"
	"github.com/pithecene-io/jute/connect"
	"github.com/pithecene-io/jute/log"
	"github.com/pithecene-io/jute/metrics"
	"github.com/pithecene-io/jute/transcript"
	"github.com/pithecene-io/jute/types"
	"github.com/pithecene-io/jute/wire"
)

// DefaultPollInterval bounds one readiness check on the iopub channel.
const DefaultPollInterval = 10 * time.Millisecond

// Transport abstracts one kernel message channel for test injection.
// *channel.Channel is the production implementation.
type Transport interface {
	Send(frames [][]byte) error
	Ready(timeout time.Duration) bool
	Recv() ([][]byte, error)
	Close() error
}

// Config configures a client.
type Config struct {
	// Descriptor is the bootstrapper's connection contract, consumed once
	// here to open the channels and key the codec.
	Descriptor *connect.Descriptor
	// Session supplies identity and the message counter. Required.
	Session *wire.Session
	// Sink receives execution output. Defaults to NopSink.
	Sink Sink
	// Logger records protocol traffic. Required.
	Logger *log.Logger
	// Collector counts wire traffic. Optional (nil-safe).
	Collector *metrics.Collector
	// Recorder captures a session transcript. Optional.
	Recorder *transcript.Recorder
	// PollInterval bounds one iopub readiness check.
	// Defaults to DefaultPollInterval.
	PollInterval time.Duration
}

// Client sequences execute request/reply exchanges with one kernel.
// Single-owner and synchronous: not safe for concurrent callers.
type Client struct {
	codec   *wire.Codec
	session *wire.Session
	shell   Transport
	iopub   Transport

	state          types.ExecutionState
	executionCount int

	sink         Sink
	logger       *log.Logger
	collector    *metrics.Collector
	recorder     *transcript.Recorder
	pollInterval time.Duration
}

// Connect opens the shell and iopub channels from the descriptor and
// returns a ready client. Initial execution state is idle.
func Connect(ctx context.Context, cfg *Config) (*Client, error) {
	shell, err := channel.Open(ctx, channel.KindShell, cfg.Descriptor)
	if err != nil {
		return nil, transportErr(err)
	}
	iopub, err := channel.Open(ctx, channel.KindIOPub, cfg.Descriptor)
	if err != nil {
		_ = shell.Close()
		return nil, transportErr(err)
	}
	return New(cfg, cfg.Descriptor.SigningKey(), shell, iopub), nil
}

// New assembles a client over already-open transports. Used by Connect
// and by tests injecting fakes.
func New(cfg *Config, key []byte, shell, iopub Transport) *Client {
	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Client{
		codec:        wire.NewCodec(key),
		session:      cfg.Session,
		shell:        shell,
		iopub:        iopub,
		state:        types.ExecutionIdle,
		sink:         sink,
		logger:       cfg.Logger,
		collector:    cfg.Collector,
		recorder:     cfg.Recorder,
		pollInterval: interval,
	}
}

// State returns the current execution state.
func (c *Client) State() types.ExecutionState {
	return c.state
}

// ExecutionCount returns the display counter advanced by execute_input
// broadcasts; the REPL prompt shows it. Distinct from the message-id
// counter owned by the session.
func (c *Client) ExecutionCount() int {
	return c.executionCount
}

// Execute submits code on the shell channel and marks the client busy.
// The send returns once the transport queues the frames; completion is
// observed later through status broadcasts (see WaitIdle).
func (c *Client) Execute(code string) error {
	env, err := c.session.Build(types.MsgExecuteRequest, types.NewExecuteRequest(code))
	if err != nil {
		return protocolErr("build execute_request: %w", err)
	}
	frames, err := c.codec.Serialize(env)
	if err != nil {
		return protocolErr("serialize execute_request: %w", err)
	}
	if err := c.shell.Send(frames); err != nil {
		return transportErr(err)
	}

	c.state = types.ExecutionBusy
	c.collector.IncSent(true)
	c.record(transcript.DirectionSend, string(channel.KindShell), env)
	c.logger.Debug("execute request sent", map[string]any{
		"msg_id":    env.Header.MsgID,
		"code_size": len(code),
	})
	return nil
}

// PollAndDispatch drains the iopub channel: while a message is ready
// within the poll interval it receives one message, decodes it and
// dispatches by message type. Per-message decode failures are logged,
// counted and skipped; transport failures and kernel protocol violations
// abort. Returns the number of messages dispatched.
func (c *Client) PollAndDispatch() (int, error) {
	dispatched := 0
	for c.iopub.Ready(c.pollInterval) {
		frames, err := c.iopub.Recv()
		if err != nil {
			return dispatched, transportErr(err)
		}

		env, err := c.codec.Deserialize(frames)
		if err != nil {
			if wire.IsSignatureMismatch(err) {
				c.collector.IncSignatureMismatch()
			} else {
				c.collector.IncDecodeError()
			}
			c.logger.Warn("skipping undecodable message", map[string]any{
				"error":  err.Error(),
				"frames": len(frames),
			})
			continue
		}

		if err := c.dispatch(env); err != nil {
			return dispatched, err
		}
		dispatched++
	}
	return dispatched, nil
}

// WaitIdle blocks until the state machine reaches idle, polling and
// dispatching broadcast traffic. timeout bounds the whole wait; zero
// means no deadline. Cancellation via ctx is honored between polls.
func (c *Client) WaitIdle(ctx context.Context, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for c.state != types.ExecutionIdle {
		select {
		case <-ctx.Done():
			return &Error{Kind: ErrorCanceled, Err: ctx.Err()}
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return &Error{Kind: ErrorTimeout, Err: fmt.Errorf("no idle status within %s", timeout)}
		}
		if _, err := c.PollAndDispatch(); err != nil {
			return err
		}
	}
	return nil
}

// dispatch routes one decoded envelope by its message type.
func (c *Client) dispatch(env *wire.Envelope) error {
	msgType := types.MessageType(env.Header.MsgType)
	c.collector.IncReceived(env.Header.MsgType)
	c.record(transcript.DirectionRecv, string(channel.KindIOPub), env)

	switch msgType {
	case types.MsgStatus:
		var content types.Status
		if err := env.DecodeContent(&content); err != nil {
			return c.skipBadContent(env, err)
		}
		state, err := types.ParseExecutionState(content.ExecutionState)
		if err != nil {
			// A state outside the protocol's enum means the kernel and
			// client no longer agree on the state machine.
			return protocolErr("status %s: %w", env.Header.MsgID, err)
		}
		c.state = state

	case types.MsgStream:
		var content types.Stream
		if err := env.DecodeContent(&content); err != nil {
			return c.skipBadContent(env, err)
		}
		switch types.StreamName(content.Name) {
		case types.StreamStdout:
			c.sink.Stdout(content.Text)
		case types.StreamStderr:
			c.sink.Stderr(content.Text)
		default:
			c.collector.IncUnknownStreamName()
			c.logger.Warn("unknown stream name", map[string]any{
				"name":   content.Name,
				"msg_id": env.Header.MsgID,
			})
		}

	case types.MsgExecuteInput:
		c.executionCount++

	case types.MsgError:
		var content types.ErrorReply
		if err := env.DecodeContent(&content); err != nil {
			return c.skipBadContent(env, err)
		}
		c.sink.ExecutionError(content.EName, content.EValue, content.Traceback)

	default:
		c.collector.IncUnknownMessageType()
		c.logger.Warn("unknown message type", map[string]any{
			"msg_type": env.Header.MsgType,
			"msg_id":   env.Header.MsgID,
		})
	}
	return nil
}

// skipBadContent handles a structurally valid envelope whose content does
// not decode: logged and skipped, never fatal.
func (c *Client) skipBadContent(env *wire.Envelope, err error) error {
	c.collector.IncDecodeError()
	c.logger.Warn("skipping message with undecodable content", map[string]any{
		"msg_type": env.Header.MsgType,
		"msg_id":   env.Header.MsgID,
		"error":    err.Error(),
	})
	return nil
}

func (c *Client) record(direction transcript.Direction, ch string, env *wire.Envelope) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(direction, ch, env); err != nil {
		c.logger.Warn("transcript write failed", map[string]any{"error": err.Error()})
	}
}

// Metrics returns a snapshot of the session counters.
func (c *Client) Metrics() metrics.Snapshot {
	return c.collector.Snapshot()
}

// Close tears down both channels.
func (c *Client) Close() error {
	return errors.Join(c.shell.Close(), c.iopub.Close())
}
