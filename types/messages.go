package types

// MessageType is the header msg_type discriminator for wire messages.
type MessageType string

// Message types in the execute/status/stream/error subset handled by the
// client. Anything else arriving on iopub is reported and skipped.
const (
	// MsgExecuteRequest submits code for execution on the shell channel.
	MsgExecuteRequest MessageType = "execute_request"
	// MsgStatus broadcasts kernel execution state transitions.
	MsgStatus MessageType = "status"
	// MsgStream carries captured stdout/stderr text.
	MsgStream MessageType = "stream"
	// MsgExecuteInput echoes submitted code with its execution count.
	MsgExecuteInput MessageType = "execute_input"
	// MsgError reports that submitted code raised an error.
	MsgError MessageType = "error"
)

// StreamName identifies the output stream a stream message belongs to.
type StreamName string

// Stream name constants per the kernel messaging protocol.
const (
	StreamStdout StreamName = "stdout"
	StreamStderr StreamName = "stderr"
)

// ExecuteRequest is the content of an execute_request message.
//
// UserExpressions is left nil so it serializes as JSON null, matching the
// minimal client contract; kernels treat null and {} identically.
type ExecuteRequest struct {
	// Code is the source to execute.
	Code string `json:"code"`
	// Silent suppresses broadcast output when true.
	Silent bool `json:"silent"`
	// StoreHistory asks the kernel to record the input in its history.
	StoreHistory bool `json:"store_history"`
	// UserExpressions maps names to expressions evaluated after the code.
	UserExpressions map[string]string `json:"user_expressions"`
	// AllowStdin advertises stdin-request support.
	AllowStdin bool `json:"allow_stdin"`
	// StopOnError aborts queued executions after an error.
	StopOnError bool `json:"stop_on_error"`
}

// NewExecuteRequest builds the execute_request content for one line of code
// with the client's fixed submission options.
func NewExecuteRequest(code string) ExecuteRequest {
	return ExecuteRequest{
		Code:         code,
		Silent:       false,
		StoreHistory: true,
		AllowStdin:   true,
		StopOnError:  true,
	}
}

// Status is the content of a status broadcast.
type Status struct {
	// ExecutionState is the raw wire state; parse with ParseExecutionState.
	ExecutionState string `json:"execution_state"`
}

// Stream is the content of a stream broadcast.
type Stream struct {
	// Name is the stream name (stdout or stderr).
	Name string `json:"name"`
	// Text is the captured output.
	Text string `json:"text"`
}

// ExecuteInput is the content of an execute_input broadcast.
type ExecuteInput struct {
	// Code is the submitted source, echoed back.
	Code string `json:"code"`
	// ExecutionCount is the kernel's display counter for this input.
	ExecutionCount int `json:"execution_count"`
}

// ErrorReply is the content of an error broadcast.
type ErrorReply struct {
	// EName is the error class name.
	EName string `json:"ename"`
	// EValue is the error message.
	EValue string `json:"evalue"`
	// Traceback is the formatted traceback, one frame per entry.
	Traceback []string `json:"traceback"`
}
