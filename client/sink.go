package client

// Sink receives the execution output the dispatch loop extracts from
// kernel broadcasts. Implementations decide presentation; the REPL wires
// a styled console sink, tests capture.
type Sink interface {
	// Stdout delivers stream text named stdout.
	Stdout(text string)
	// Stderr delivers stream text named stderr.
	Stderr(text string)
	// ExecutionError reports that the submitted code raised, with the
	// kernel's error name, value and formatted traceback.
	ExecutionError(ename, evalue string, traceback []string)
}

// NopSink discards all output.
type NopSink struct{}

func (NopSink) Stdout(string)                      {}
func (NopSink) Stderr(string)                      {}
func (NopSink) ExecutionError(string, string, []string) {}
