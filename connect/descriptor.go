// Package connect parses the connection descriptor handed over by the
// kernel bootstrapper. The bootstrapper (whatever started the kernel) is
// an external collaborator; this package only consumes its JSON contract.
package connect

import (
	"encoding/json"
	"fmt"
	"os"
)

// Channel port names in the descriptor's port mapping. Only shell and
// iopub are dialed by this client; the rest are carried for completeness.
const (
	PortShell   = "shell"
	PortIOPub   = "iopub"
	PortStdin   = "stdin"
	PortControl = "control"
	PortHB      = "hb"
)

// Default descriptor values applied when the bootstrapper omits them.
const (
	DefaultTransport       = "tcp"
	DefaultHost            = "127.0.0.1"
	DefaultSignatureScheme = "hmac-sha256"

	// SchemeNone disables message signing.
	SchemeNone = "none"
)

// Descriptor is the connection contract returned by the bootstrapper:
// at least a signing key and the shell/iopub port mapping. Immutable once
// parsed; consumed once at client construction.
type Descriptor struct {
	// Transport is the wire transport, normally "tcp".
	Transport string `json:"transport,omitempty"`
	// Host is the kernel's transport host.
	Host string `json:"host,omitempty"`
	// Key is the HMAC signing secret, empty when scheme is "none".
	Key string `json:"key"`
	// SignatureScheme names the signing algorithm.
	SignatureScheme string `json:"signature_scheme,omitempty"`
	// Ports maps channel names to port numbers.
	Ports map[string]int `json:"ports"`
}

// Parse decodes a descriptor from its JSON form and applies defaults.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid connection descriptor: %w", err)
	}
	if d.Transport == "" {
		d.Transport = DefaultTransport
	}
	if d.Host == "" {
		d.Host = DefaultHost
	}
	if d.SignatureScheme == "" {
		d.SignatureScheme = DefaultSignatureScheme
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and parses a descriptor file written by the bootstrapper.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("connection file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read connection file %q: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the fields this client actually uses. Port ranges are
// not validated beyond presence; the descriptor is otherwise opaque.
func (d *Descriptor) Validate() error {
	switch d.SignatureScheme {
	case DefaultSignatureScheme:
		if d.Key == "" {
			return fmt.Errorf("descriptor: signing key required for scheme %q", d.SignatureScheme)
		}
	case SchemeNone:
	default:
		return fmt.Errorf("descriptor: unsupported signature scheme %q", d.SignatureScheme)
	}
	for _, name := range []string{PortShell, PortIOPub} {
		if _, ok := d.Ports[name]; !ok {
			return fmt.Errorf("descriptor: missing %s port", name)
		}
	}
	return nil
}

// SigningKey returns the key bytes to sign with, nil when signing is off.
func (d *Descriptor) SigningKey() []byte {
	if d.SignatureScheme == SchemeNone || d.Key == "" {
		return nil
	}
	return []byte(d.Key)
}

// Endpoint formats the dial address for a named channel,
// e.g. "tcp://127.0.0.1:53712".
func (d *Descriptor) Endpoint(port string) (string, error) {
	p, ok := d.Ports[port]
	if !ok {
		return "", fmt.Errorf("descriptor: no %s port", port)
	}
	return fmt.Sprintf("%s://%s:%d", d.Transport, d.Host, p), nil
}
