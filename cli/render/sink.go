package render

import (
	"fmt"
	"io"
)

// ConsoleSink delivers kernel output to the terminal. Stream text is
// written verbatim so multi-chunk output concatenates the way the
// kernel produced it; only error replies and stderr get styling.
type ConsoleSink struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
	failed  bool
}

// NewConsoleSink builds a sink writing stdout text to out and stderr
// text plus error replies to errOut.
func NewConsoleSink(out, errOut io.Writer, noColor bool) *ConsoleSink {
	return &ConsoleSink{out: out, errOut: errOut, noColor: noColor}
}

// Stdout writes kernel stdout text verbatim.
func (s *ConsoleSink) Stdout(text string) {
	fmt.Fprint(s.out, text)
}

// Stderr writes kernel stderr text, styled unless color is disabled.
func (s *ConsoleSink) Stderr(text string) {
	if s.noColor {
		fmt.Fprint(s.errOut, text)
		return
	}
	fmt.Fprint(s.errOut, StderrStyle.Render(text))
}

// ExecutionError reports an error reply from the kernel and marks the
// sink failed for exit-code purposes.
func (s *ConsoleSink) ExecutionError(ename, evalue string, traceback []string) {
	s.failed = true

	head := ename
	if evalue != "" {
		head = fmt.Sprintf("%s: %s", ename, evalue)
	}
	if s.noColor {
		fmt.Fprintln(s.errOut, head)
	} else {
		fmt.Fprintln(s.errOut, ErrorStyle.Render(head))
	}

	for _, line := range traceback {
		if s.noColor {
			fmt.Fprintln(s.errOut, line)
		} else {
			fmt.Fprintln(s.errOut, TracebackStyle.Render(line))
		}
	}
}

// Failed reports whether any error reply was delivered.
func (s *ConsoleSink) Failed() bool {
	return s.failed
}

// Reset clears the failed flag before the next execution.
func (s *ConsoleSink) Reset() {
	s.failed = false
}
