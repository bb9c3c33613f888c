package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pithecene-io/jute/connect"
)

// newTestChannel builds a channel with no socket, fed directly via recvC.
func newTestChannel(kind Kind) *Channel {
	return &Channel{
		kind:   kind,
		cancel: func() {},
		recvC:  make(chan recvResult, recvBuffer),
		pumped: make(chan struct{}),
	}
}

func TestReady_TimesOutEmpty(t *testing.T) {
	c := newTestChannel(KindIOPub)

	start := time.Now()
	if c.Ready(20 * time.Millisecond) {
		t.Error("Ready = true on empty channel")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Ready blocked %v, want bounded by timeout", elapsed)
	}
}

func TestReady_PeeksWithoutConsuming(t *testing.T) {
	c := newTestChannel(KindIOPub)
	c.recvC <- recvResult{frames: [][]byte{[]byte("a"), []byte("b")}}

	if !c.Ready(time.Millisecond) {
		t.Fatal("Ready = false with a queued message")
	}
	// A second Ready must see the same buffered message.
	if !c.Ready(time.Millisecond) {
		t.Fatal("Ready = false after peek")
	}

	frames, err := c.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if len(frames) != 2 || string(frames[0]) != "a" {
		t.Errorf("frames = %q", frames)
	}

	if c.Ready(time.Millisecond) {
		t.Error("Ready = true after the only message was consumed")
	}
}

func TestRecv_ReportsPumpError(t *testing.T) {
	c := newTestChannel(KindIOPub)
	cause := errors.New("connection reset")
	c.recvC <- recvResult{err: cause}

	_, err := c.Recv()
	if !IsTransportError(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap cause", err)
	}
}

func TestRecv_ClosedChannel(t *testing.T) {
	c := newTestChannel(KindShell)
	close(c.pumped)

	_, err := c.Recv()
	if !IsClosed(err) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
	if c.Ready(time.Millisecond) {
		t.Error("Ready = true on closed empty channel")
	}
}

func TestRecv_DrainsAfterPumpExit(t *testing.T) {
	c := newTestChannel(KindIOPub)
	c.recvC <- recvResult{frames: [][]byte{[]byte("last")}}
	close(c.pumped)

	frames, err := c.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if string(frames[0]) != "last" {
		t.Errorf("frames = %q", frames)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	desc, err := connect.Parse([]byte(`{"key":"k","ports":{"shell":1,"iopub":2}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := Open(context.Background(), Kind("hb"), desc); err == nil {
		t.Error("expected error for unknown channel kind")
	}
}
