// Package transcript records a kernel session as a stream of
// length-prefixed msgpack frames, one per message sent or received, and
// decodes recorded streams back for offline inspection.
package transcript

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/jute/wire"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (16 MiB), including length prefix.
	MaxFrameSize = 16 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size (MaxFrameSize - 4 bytes).
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// Direction says which way a recorded message traveled.
type Direction string

const (
	// DirectionSend marks a message the client sent to the kernel.
	DirectionSend Direction = "send"
	// DirectionRecv marks a message received from the kernel.
	DirectionRecv Direction = "recv"
)

// Record is one transcript entry. Content is the message's own JSON
// serialization carried through untouched.
type Record struct {
	Direction Direction       `msgpack:"direction" json:"direction"`
	Channel   string          `msgpack:"channel" json:"channel"`
	Ts        string          `msgpack:"ts" json:"ts"`
	MsgID     string          `msgpack:"msg_id" json:"msg_id"`
	MsgType   string          `msgpack:"msg_type" json:"msg_type"`
	Session   string          `msgpack:"session" json:"session"`
	Content   json.RawMessage `msgpack:"content" json:"content"`
}

// ErrorKind classifies transcript decoding errors.
type ErrorKind int

const (
	// ErrorPartial indicates a truncated or incomplete frame.
	ErrorPartial ErrorKind = iota
	// ErrorTooLarge indicates a frame exceeding MaxFrameSize.
	ErrorTooLarge
	// ErrorDecode indicates a msgpack decoding error.
	ErrorDecode
)

// Error represents a transcript frame error.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript: %s: %v", e.Msg, e.Err)
	}
	return "transcript: " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPartial returns true if err is a truncated-frame error.
func IsPartial(err error) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.Kind == ErrorPartial
}

// Recorder appends records to a transcript stream. Single-owner, not
// safe for concurrent use; the client records from its dispatch loop.
type Recorder struct {
	w io.Writer
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Record appends one envelope to the transcript.
func (r *Recorder) Record(direction Direction, channel string, env *wire.Envelope) error {
	rec := Record{
		Direction: direction,
		Channel:   channel,
		Ts:        time.Now().UTC().Format(time.RFC3339Nano),
		MsgID:     env.Header.MsgID,
		MsgType:   env.Header.MsgType,
		Session:   env.Header.Session,
		Content:   env.Content,
	}
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("transcript: encode record: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return &Error{Kind: ErrorTooLarge, Msg: fmt.Sprintf("record payload %d exceeds maximum %d", len(payload), MaxPayloadSize)}
	}

	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := r.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("transcript: write length prefix: %w", err)
	}
	if _, err := r.w.Write(payload); err != nil {
		return fmt.Errorf("transcript: write payload: %w", err)
	}
	return nil
}

// Decoder reads records back from a transcript stream.
type Decoder struct {
	reader io.Reader
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: r}
}

// ReadRecord reads a single record from the stream.
//
// Errors:
//   - io.EOF: stream ended cleanly (no more records)
//   - *Error with Kind=ErrorPartial: incomplete frame
//   - *Error with Kind=ErrorTooLarge: frame exceeds limit
//   - *Error with Kind=ErrorDecode: msgpack decoding failure
func (d *Decoder) ReadRecord() (*Record, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(d.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &Error{Kind: ErrorPartial, Msg: "failed to read length prefix", Err: err}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &Error{
			Kind: ErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		return nil, &Error{Kind: ErrorPartial, Msg: "failed to read payload", Err: err}
	}

	var rec Record
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return nil, &Error{Kind: ErrorDecode, Msg: "failed to decode record", Err: err}
	}
	return &rec, nil
}

// ReadAll reads records until EOF.
func (d *Decoder) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := d.ReadRecord()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, err
		}
		records = append(records, *rec)
	}
}
