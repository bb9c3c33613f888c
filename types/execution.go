// Package types defines core domain types for the jute kernel client.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// ExecutionState is the kernel execution state reported on the iopub
// channel via status messages.
type ExecutionState string

// Execution state constants per the kernel messaging protocol.
const (
	// ExecutionStarting indicates the kernel is starting up.
	ExecutionStarting ExecutionState = "starting"
	// ExecutionIdle indicates the kernel is idle and the previous
	// execute request (if any) has completed.
	ExecutionIdle ExecutionState = "idle"
	// ExecutionBusy indicates the kernel is processing a request.
	ExecutionBusy ExecutionState = "busy"
)

// ParseExecutionState parses a wire execution_state value.
// Any value outside the protocol's starting/idle/busy set is a protocol
// violation by the kernel and is returned as an error.
func ParseExecutionState(s string) (ExecutionState, error) {
	switch ExecutionState(s) {
	case ExecutionStarting, ExecutionIdle, ExecutionBusy:
		return ExecutionState(s), nil
	default:
		return "", fmt.Errorf("unknown execution state %q", s)
	}
}
