// Package metrics provides per-session counters for wire traffic.
//
// The Collector accumulates counters for a single client session. It is a
// leaf package with no internal dependencies. All increment methods are
// nil-receiver safe so instrumentation can be left unwired in tests.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the session counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	// Outbound
	MessagesSent    int64
	ExecuteRequests int64

	// Inbound
	MessagesReceived int64
	ReceivedByType   map[string]int64

	// Skipped traffic
	DecodeErrors        int64
	SignatureMismatches int64
	UnknownMessageTypes int64
	UnknownStreamNames  int64

	// Dimensions (informational, set at construction)
	SessionID string
}

// Collector accumulates counters during a session. Thread-safe.
type Collector struct {
	mu sync.Mutex

	messagesSent    int64
	executeRequests int64

	messagesReceived int64
	receivedByType   map[string]int64

	decodeErrors        int64
	signatureMismatches int64
	unknownMessageTypes int64
	unknownStreamNames  int64

	sessionID string
}

// NewCollector creates a Collector labeled with the session id.
func NewCollector(sessionID string) *Collector {
	return &Collector{
		receivedByType: make(map[string]int64),
		sessionID:      sessionID,
	}
}

// IncSent records one outbound message; execute reports whether it was an
// execute_request.
func (c *Collector) IncSent(execute bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	if execute {
		c.executeRequests++
	}
}

// IncReceived records one inbound message of the given type.
func (c *Collector) IncReceived(msgType string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived++
	c.receivedByType[msgType]++
}

// IncDecodeError records one inbound message dropped by the codec.
func (c *Collector) IncDecodeError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decodeErrors++
}

// IncSignatureMismatch records one inbound message rejected for a bad
// signature.
func (c *Collector) IncSignatureMismatch() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signatureMismatches++
}

// IncUnknownMessageType records one skipped message of an unhandled type.
func (c *Collector) IncUnknownMessageType() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unknownMessageTypes++
}

// IncUnknownStreamName records one stream message with an unknown name.
func (c *Collector) IncUnknownStreamName() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unknownStreamNames++
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byType := make(map[string]int64, len(c.receivedByType))
	for k, v := range c.receivedByType {
		byType[k] = v
	}
	return Snapshot{
		MessagesSent:        c.messagesSent,
		ExecuteRequests:     c.executeRequests,
		MessagesReceived:    c.messagesReceived,
		ReceivedByType:      byType,
		DecodeErrors:        c.decodeErrors,
		SignatureMismatches: c.signatureMismatches,
		UnknownMessageTypes: c.unknownMessageTypes,
		UnknownStreamNames:  c.unknownStreamNames,
		SessionID:           c.sessionID,
	}
}
