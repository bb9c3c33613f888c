package connect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const descriptorJSON = `{
	"key": "b7e1f4a2-secret",
	"ports": {"shell": 53701, "iopub": 53702, "stdin": 53703, "hb": 53704, "control": 53705}
}`

func TestParse_Defaults(t *testing.T) {
	d, err := Parse([]byte(descriptorJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if d.Transport != "tcp" {
		t.Errorf("transport = %q, want tcp", d.Transport)
	}
	if d.Host != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", d.Host)
	}
	if d.SignatureScheme != DefaultSignatureScheme {
		t.Errorf("signature_scheme = %q, want %q", d.SignatureScheme, DefaultSignatureScheme)
	}
	if string(d.SigningKey()) != "b7e1f4a2-secret" {
		t.Errorf("signing key = %q", d.SigningKey())
	}
}

func TestParse_Endpoint(t *testing.T) {
	d, err := Parse([]byte(descriptorJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ep, err := d.Endpoint(PortShell)
	if err != nil {
		t.Fatalf("Endpoint failed: %v", err)
	}
	if ep != "tcp://127.0.0.1:53701" {
		t.Errorf("shell endpoint = %q", ep)
	}

	if _, err := d.Endpoint("nope"); err == nil {
		t.Error("expected error for unknown port name")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"bad json", `{"key": }`, "invalid connection descriptor"},
		{"missing shell", `{"key":"k","ports":{"iopub":1}}`, "missing shell port"},
		{"missing iopub", `{"key":"k","ports":{"shell":1}}`, "missing iopub port"},
		{"empty key", `{"key":"","ports":{"shell":1,"iopub":2}}`, "signing key required"},
		{"bad scheme", `{"key":"k","signature_scheme":"md5","ports":{"shell":1,"iopub":2}}`, "unsupported signature scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParse_SchemeNone(t *testing.T) {
	d, err := Parse([]byte(`{"key":"","signature_scheme":"none","ports":{"shell":1,"iopub":2}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.SigningKey() != nil {
		t.Errorf("signing key = %q, want nil for scheme none", d.SigningKey())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.json")
	if err := os.WriteFile(path, []byte(descriptorJSON), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Ports[PortIOPub] != 53702 {
		t.Errorf("iopub port = %d, want 53702", d.Ports[PortIOPub])
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
