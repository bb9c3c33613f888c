package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pithecene-io/jute/types"
)

// DefaultUsername is stamped into outbound headers when none is configured.
const DefaultUsername = "jute"

// Session owns the signing key, session identity and the outbound message
// counter. It is held exclusively by one execution client and is not safe
// for concurrent use.
type Session struct {
	key      []byte
	id       string
	username string
	count    uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithUsername overrides the header username.
func WithUsername(username string) SessionOption {
	return func(s *Session) {
		if username != "" {
			s.username = username
		}
	}
}

// WithSessionID pins the session id instead of generating one.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession creates a session keyed by the bootstrapper's signing secret.
// The session id defaults to a random UUID.
func NewSession(key []byte, opts ...SessionOption) *Session {
	s := &Session{
		key:      key,
		id:       uuid.NewString(),
		username: DefaultUsername,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Key returns the signing key.
func (s *Session) Key() []byte { return s.key }

// MessageCount returns the number of messages built so far.
func (s *Session) MessageCount() uint64 { return s.count }

// Build constructs a fresh outbound envelope of the given type.
//
// The message id is derived from the session id and the message counter,
// which advances on every call so ids stay unique for reply correlation.
// Content shape is not validated; that is the caller's contract with the
// kernel. A nil content serializes as an empty object.
func (s *Session) Build(msgType types.MessageType, content any) (*Envelope, error) {
	encoded := emptyObject
	if content != nil {
		data, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("encode %s content: %w", msgType, err)
		}
		encoded = data
	}

	s.count++
	env := &Envelope{
		Header: Header{
			MsgID:    fmt.Sprintf("%s_%d", s.id, s.count),
			MsgType:  string(msgType),
			Username: s.username,
			Session:  s.id,
			Date:     time.Now().UTC().Format(time.RFC3339),
			Version:  types.ProtocolVersion,
		},
		ParentHeader: emptyObject,
		Metadata:     emptyObject,
		Content:      encoded,
	}
	return env, nil
}
