package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/franzenjb/fourcolor/pkg/cache"
	fcerrors "github.com/franzenjb/fourcolor/pkg/errors"
)

// flakyServer fails the first failures requests with status, then serves body.
func flakyServer(t *testing.T, failures int32, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= failures {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testClient(t *testing.T) *Client {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc)
	c.Delay = time.Millisecond
	return c
}

func TestFetchRetriesServerErrors(t *testing.T) {
	srv, calls := flakyServer(t, 2, http.StatusBadGateway, `{"nodes":[]}`)
	c := testClient(t)

	data, err := c.Fetch(context.Background(), srv.URL, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != `{"nodes":[]}` || calls.Load() != 3 {
		t.Errorf("data = %q after %d calls", data, calls.Load())
	}
}

func TestFetchCaches(t *testing.T) {
	srv, calls := flakyServer(t, 0, 0, "body")
	c := testClient(t)
	ctx := context.Background()

	for range 3 {
		if _, err := c.Fetch(ctx, srv.URL, false); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("cached fetch hit the server %d times", calls.Load())
	}
	if _, err := c.Fetch(ctx, srv.URL, true); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Error("refresh did not bypass the cache")
	}
}

func TestFetchNotFoundIsNotRetried(t *testing.T) {
	srv, calls := flakyServer(t, 10, http.StatusNotFound, "")
	_, err := testClient(t).Fetch(context.Background(), srv.URL, false)
	if !fcerrors.Is(err, fcerrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 retried: %d calls", calls.Load())
	}
}

func TestFetchGivesUp(t *testing.T) {
	srv, calls := flakyServer(t, 10, http.StatusServiceUnavailable, "")
	_, err := testClient(t).Fetch(context.Background(), srv.URL, false)
	if !fcerrors.IsTransient(err) {
		t.Errorf("err = %v, want the last retryable error", err)
	}
	if calls.Load() != defaultAttempts {
		t.Errorf("calls = %d, want %d", calls.Load(), defaultAttempts)
	}
}
