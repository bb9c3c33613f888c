package wire

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Delimiter separates transport routing frames from the signed message
// body in a multipart message. Protocol-mandated literal.
const Delimiter = "<IDS|MSG>"

// BodyFrames is the number of signed JSON parts in every message.
const BodyFrames = 4

// Codec serializes envelopes to wire frames and parses them back, signing
// and verifying with the session signing key. A codec with an empty key
// (signature scheme "none") emits and accepts empty signatures.
type Codec struct {
	key []byte
}

// NewCodec creates a codec keyed by the signing secret.
func NewCodec(key []byte) *Codec {
	return &Codec{key: key}
}

// Sign computes the hex-encoded HMAC-SHA256 of the given parts, feeding
// each part to the MAC in order. HMAC processes its input as one byte
// stream, so this is identical to signing the concatenation.
// Returns "" when no key is configured.
func (c *Codec) Sign(parts ...[]byte) string {
	if len(c.key) == 0 {
		return ""
	}
	mac := hmac.New(sha256.New, c.key)
	for _, part := range parts {
		mac.Write(part)
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// Serialize encodes an envelope into the ordered wire frame list:
//
//	[delimiter, signature, header, parent_header, metadata, content]
//
// The output is always exactly six frames; routing identities are the
// transport's business, never authored here.
func (c *Codec) Serialize(env *Envelope) ([][]byte, error) {
	header, err := json.Marshal(env.Header)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	parent := env.ParentHeader
	if len(parent) == 0 {
		parent = emptyObject
	}
	metadata := env.Metadata
	if len(metadata) == 0 {
		metadata = emptyObject
	}
	content := env.Content
	if len(content) == 0 {
		content = emptyObject
	}

	signature := c.Sign(header, parent, metadata, content)

	return [][]byte{
		[]byte(Delimiter),
		[]byte(signature),
		header,
		parent,
		metadata,
		content,
	}, nil
}

// Deserialize parses an inbound frame list into an envelope.
//
// The delimiter is located by scanning for the literal token, skipping any
// routing identity frames the transport prepended. The frame after the
// delimiter is the signature, verified against a freshly computed digest
// over the four body frames; the body frames are then decoded as JSON
// objects.
//
// Errors are tagged: ErrorMalformed for a missing delimiter or truncated
// body, ErrorSignature for a digest mismatch, ErrorEncoding for invalid
// UTF-8, ErrorPayload for frames that are not JSON objects. The malformed
// checks run first so a garbage frame list never surfaces as a decoding
// error.
func (c *Codec) Deserialize(frames [][]byte) (*Envelope, error) {
	delim := -1
	for i, frame := range frames {
		if string(frame) == Delimiter {
			delim = i
			break
		}
	}
	if delim < 0 {
		return nil, &Error{Kind: ErrorMalformed, Msg: "missing delimiter frame"}
	}
	if len(frames) < delim+2+BodyFrames {
		return nil, &Error{
			Kind: ErrorMalformed,
			Msg:  fmt.Sprintf("expected signature and %d body frames after delimiter, have %d", BodyFrames, len(frames)-delim-1),
		}
	}

	signature := frames[delim+1]
	body := frames[delim+2 : delim+2+BodyFrames]

	if len(c.key) > 0 {
		expected := c.Sign(body[0], body[1], body[2], body[3])
		if !hmac.Equal(signature, []byte(expected)) {
			return nil, &Error{
				Kind: ErrorSignature,
				Msg:  fmt.Sprintf("signature mismatch: got %q", signature),
			}
		}
	}

	names := [BodyFrames]string{"header", "parent_header", "metadata", "content"}
	for i, frame := range body {
		if !utf8.Valid(frame) {
			return nil, &Error{Kind: ErrorEncoding, Msg: names[i] + " frame is not valid UTF-8"}
		}
		// Unmarshal into a map rejects arrays and scalars but accepts
		// null, so null needs an explicit check.
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(frame, &obj); err != nil {
			return nil, &Error{Kind: ErrorPayload, Msg: names[i] + " frame is not a JSON object", Err: err}
		}
		if obj == nil {
			return nil, &Error{Kind: ErrorPayload, Msg: names[i] + " frame is not a JSON object"}
		}
	}

	env := &Envelope{
		ParentHeader: json.RawMessage(body[1]),
		Metadata:     json.RawMessage(body[2]),
		Content:      json.RawMessage(body[3]),
	}
	if err := json.Unmarshal(body[0], &env.Header); err != nil {
		return nil, &Error{Kind: ErrorPayload, Msg: "header fields", Err: err}
	}
	return env, nil
}
