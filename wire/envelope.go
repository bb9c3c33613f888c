// Package wire implements the kernel messaging envelope and its multipart
// frame codec: construction, HMAC-SHA256 signing, serialization to the
// ordered frame list, and parsing of inbound frame lists.
package wire

import "encoding/json"

// emptyObject is the serialized form of an absent envelope part.
var emptyObject = json.RawMessage("{}")

// Header is the message header carried in every envelope.
//
// MsgID, MsgType, Username and Session are always populated on outbound
// messages; Date and Version are stamped too but tolerated as absent on
// inbound traffic from older kernels.
type Header struct {
	MsgID    string `json:"msg_id"`
	MsgType  string `json:"msg_type"`
	Username string `json:"username"`
	Session  string `json:"session"`
	Date     string `json:"date,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Envelope is the four-part message body exchanged over the wire protocol.
//
// ParentHeader, Metadata and Content hold each part's own serialization:
// the bytes that were (or will be) signed and sent, never a re-encoding.
// Each part is an independently serializable JSON object, possibly empty,
// never an array or scalar.
type Envelope struct {
	Header       Header
	ParentHeader json.RawMessage
	Metadata     json.RawMessage
	Content      json.RawMessage
}

// DecodeContent unmarshals the envelope content into v.
func (e *Envelope) DecodeContent(v any) error {
	return json.Unmarshal(e.Content, v)
}
