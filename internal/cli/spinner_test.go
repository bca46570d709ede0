package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureUI(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	prev := uiOut
	uiOut = buf
	t.Cleanup(func() { uiOut = prev })
	return buf
}

func TestSpinnerDraws(t *testing.T) {
	buf := captureUI(t)
	s := newSpinner("Rendering svg...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "Rendering svg...")
	assert.True(t, strings.HasSuffix(out, "\r"), "line is cleared on stop")
	assert.True(t, s.Cancelled())
}

func TestSpinnerContextCancel(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Working...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.True(t, s.Cancelled())
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Working...")
	s.Start()
	time.Sleep(60 * time.Millisecond)
	assert.True(t, s.Cancelled())
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureUI(t)
	s := newSpinner("Working...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	captureUI(t)
	done := make(chan struct{})
	go func() {
		newSpinner("never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	buf := captureUI(t)

	s := newSpinner("Working...")
	s.Start()
	s.StopWithSuccess("Done")
	assert.Contains(t, buf.String(), iconSuccess+" Done")

	s = newSpinner("Working...")
	s.Start()
	s.StopWithError("Failed")
	assert.Contains(t, buf.String(), iconError+" Failed")
}
