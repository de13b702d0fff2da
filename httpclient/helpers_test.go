package httpclient

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// recordingTransport answers 200 OK and keeps every request it receives.
type recordingTransport struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.reqs = append(rt.reqs, req)
	rt.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("ok")),
		Request:    req,
	}, nil
}

func (rt *recordingTransport) count() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.reqs)
}

func (rt *recordingTransport) last(t *testing.T) *http.Request {
	t.Helper()
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.reqs) == 0 {
		t.Fatal("transport received no request")
	}
	return rt.reqs[len(rt.reqs)-1]
}

var testCreds = StaticCredentials{Key: "abc", Instance: "inst1"}

func newTestClient(t *testing.T, cfg Config, rt http.RoundTripper) *Client {
	t.Helper()
	c, err := New(cfg, testCreds, WithTransport(rt))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}
