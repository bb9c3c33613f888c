package types

import (
	"encoding/json"
	"testing"
)

func TestParseExecutionState(t *testing.T) {
	tests := []struct {
		input   string
		want    ExecutionState
		wantErr bool
	}{
		{"starting", ExecutionStarting, false},
		{"idle", ExecutionIdle, false},
		{"busy", ExecutionBusy, false},
		{"", "", true},
		{"restarting", "", true},
		{"IDLE", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExecutionState(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseExecutionState(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExecutionState(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExecutionState(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewExecuteRequest_WireShape(t *testing.T) {
	content := NewExecuteRequest("1+1")

	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["code"] != "1+1" {
		t.Errorf("code = %v, want 1+1", decoded["code"])
	}
	if decoded["silent"] != false {
		t.Errorf("silent = %v, want false", decoded["silent"])
	}
	if decoded["store_history"] != true {
		t.Errorf("store_history = %v, want true", decoded["store_history"])
	}
	if decoded["allow_stdin"] != true {
		t.Errorf("allow_stdin = %v, want true", decoded["allow_stdin"])
	}
	if decoded["stop_on_error"] != true {
		t.Errorf("stop_on_error = %v, want true", decoded["stop_on_error"])
	}

	// user_expressions must be present and null, not absent or {}.
	v, ok := decoded["user_expressions"]
	if !ok {
		t.Fatal("user_expressions missing from wire encoding")
	}
	if v != nil {
		t.Errorf("user_expressions = %v, want null", v)
	}
}
