package types

// Version is the canonical project version.
// The CLI and the wire client report this single version.
const Version = "0.2.0"

// ProtocolVersion is the Jupyter messaging protocol version stamped into
// outbound message headers.
const ProtocolVersion = "5.3"
