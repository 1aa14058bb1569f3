package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
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

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Coloring with dsatur...")
	s.tick = 5 * time.Millisecond
	s.Start()
	time.Sleep(40 * time.Millisecond)
	s.SetMessage("Coloring with backtracking...")
	time.Sleep(40 * time.Millisecond)
	s.Stop()

	got := out.String()
	for _, want := range []string{"Coloring with dsatur...", "Coloring with backtracking..."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared on stop: %q", got[max(len(got)-20, 0):])
	}
	if s.Cancelled() {
		t.Error("Stop must not count as cancellation")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	tests := map[string]func() (context.Context, context.CancelFunc){
		"cancel": func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		},
		"timeout": func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		},
	}
	for name, mk := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := mk()
			defer cancel()
			var out syncBuffer
			s := newSpinnerTo(ctx, &out, "Fetching graph...")
			s.Start()

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
			if !s.Cancelled() {
				t.Error("Cancelled() = false")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Rendering...")
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}
