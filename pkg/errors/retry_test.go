package errors

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	err := Transient(io.ErrUnexpectedEOF)
	if !IsTransient(err) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Transient lost its cause: %v", err)
	}
	if err.Error() != io.ErrUnexpectedEOF.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsTransient(io.EOF) {
		t.Error("unmarked error reported as transient")
	}
	if !IsTransient(Wrap(ErrCodeInternal, err, "fetch")) {
		t.Error("wrapping should keep the mark")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	flaky := func(failures int, fail error) (func() error, *int) {
		calls := 0
		return func() error {
			calls++
			if calls <= failures {
				return fail
			}
			return nil
		}, &calls
	}

	tests := []struct {
		name      string
		attempts  int
		failures  int
		fail      error
		wantCalls int
		wantErr   bool
	}{
		{"first try", 3, 0, nil, 1, false},
		{"recovers", 3, 2, Transient(io.ErrUnexpectedEOF), 3, false},
		{"gives up", 3, 5, Transient(io.ErrUnexpectedEOF), 3, true},
		{"permanent", 3, 5, io.EOF, 1, true},
		{"zero attempts runs once", 0, 5, Transient(io.ErrUnexpectedEOF), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := flaky(tt.failures, tt.fail)
			err := Retry(ctx, tt.attempts, time.Millisecond, fn)
			if (err != nil) != tt.wantErr || *calls != tt.wantCalls {
				t.Errorf("err = %v after %d calls, want err=%v after %d", err, *calls, tt.wantErr, tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return Transient(io.ErrUnexpectedEOF)
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}
