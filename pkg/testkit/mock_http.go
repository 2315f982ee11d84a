// Package testkit holds test doubles shared by liveserver's package tests.
package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// MockTransport implements http.RoundTripper.
// It matches outgoing requests by URL prefix and returns canned responses or
// transport errors instead of touching the network.
//
//	mt := testkit.NewMockTransport()
//	mt.Fail("http://localhost", syscall.ECONNREFUSED)
//	srv := server.New(server.WithClient(&http.Client{Transport: mt}))
//	// ... run test ...
//	assert.Empty(t, mt.AssertAllCalled())
type MockTransport struct {
	mu     sync.Mutex
	steps  []*mockStep
	strict bool
	next   http.RoundTripper
}

type mockStep struct {
	prefix    string
	status    int
	body      string
	header    http.Header
	err       error
	callCount int
}

// NewMockTransport returns a transport with no steps. Unmatched requests get
// a 404 unless Strict is set.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Strict makes unmatched requests fail with an error.
func (mt *MockTransport) Strict() *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.strict = true
	return mt
}

// PassThrough sends unmatched requests to rt instead of answering them.
func (mt *MockTransport) PassThrough(rt http.RoundTripper) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.next = rt
	return mt
}

// Respond answers requests whose URL starts with prefix.
func (mt *MockTransport) Respond(prefix string, status int, body string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.steps = append(mt.steps, &mockStep{
		prefix: prefix,
		status: status,
		body:   body,
		header: http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
	})
	return mt
}

// Fail makes requests whose URL starts with prefix fail with err.
func (mt *MockTransport) Fail(prefix string, err error) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.steps = append(mt.steps, &mockStep{prefix: prefix, err: err})
	return mt
}

// RoundTrip intercepts the outgoing request.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	step := mt.match(req.URL.String())
	strict, next := mt.strict, mt.next
	mt.mu.Unlock()

	if step != nil {
		if step.err != nil {
			return nil, step.err
		}
		return &http.Response{
			StatusCode: step.status,
			Status:     fmt.Sprintf("%d %s", step.status, http.StatusText(step.status)),
			Header:     step.header.Clone(),
			Body:       io.NopCloser(strings.NewReader(step.body)),
			Request:    req,
		}, nil
	}

	if next != nil {
		return next.RoundTrip(req)
	}

	if strict {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s", req.URL)
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader("no mock configured")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Calls reports how many requests matched prefix's step.
func (mt *MockTransport) Calls(prefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	total := 0
	for _, s := range mt.steps {
		if s.prefix == prefix {
			total += s.callCount
		}
	}
	return total
}

// AssertAllCalled returns one error per step that never matched.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, s := range mt.steps {
		if s.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock step %q was never called", s.prefix))
		}
	}
	return errs
}

// match must be called with mu held.
func (mt *MockTransport) match(url string) *mockStep {
	for _, s := range mt.steps {
		if s.prefix == "" || strings.HasPrefix(url, s.prefix) {
			s.callCount++
			return s
		}
	}
	return nil
}
