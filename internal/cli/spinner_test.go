package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func bufferedSpinner(ctx context.Context, message string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &buf
	return s, &buf
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Loading harbor.toml...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.SetMessage("Rendering harbor as svg...")
	time.Sleep(2 * s.style.FPS)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Loading harbor.toml...") {
		t.Errorf("initial message missing from %q", out)
	}
	if !strings.Contains(out, "Rendering harbor as svg...") {
		t.Errorf("updated message missing from %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared after Stop: %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := bufferedSpinner(ctx, "Rendering...")
	s.Start()
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled = false after parent cancellation")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s, _ := bufferedSpinner(ctx, "Rendering...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("Cancelled = false after timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "Rendering...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Start()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Rendering...")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithSuccess("Rendered harbor")

	s, _ = bufferedSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithError("Render failed")
}
