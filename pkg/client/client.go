// Package client is the outbound HTTP client behind Server.Fetch.
//
// Usage:
//
//	resp, err := client.Do(ctx, nil, "http://localhost:8080/users",
//	    client.Post().Bearer(token).Body(map[string]any{"name": "Shashi"}))
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
// Options are applied verbatim: there is no retry and no status checking.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTransport is the connection-pooled transport used outside tests.
// Tests can replace DefaultClient.Transport to inject mocks.
var defaultTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        200,
	MaxIdleConnsPerHost: 100,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared client used when a Server has none configured.
//
//	client.DefaultClient.Transport = myMockTransport
//	defer client.ResetTransport()
var DefaultClient = &http.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ------------------- Options -------------------

// Options describes one outbound request. The zero value is a bare GET.
type Options struct {
	method  string
	headers http.Header
	body    interface{}
}

// NewOptions starts options for an arbitrary method.
func NewOptions(method string) *Options {
	return &Options{method: method, headers: make(http.Header)}
}

// Get starts GET options.
func Get() *Options { return NewOptions(http.MethodGet) }

// Post starts POST options.
func Post() *Options { return NewOptions(http.MethodPost) }

// Put starts PUT options.
func Put() *Options { return NewOptions(http.MethodPut) }

// Patch starts PATCH options.
func Patch() *Options { return NewOptions(http.MethodPatch) }

// Delete starts DELETE options.
func Delete() *Options { return NewOptions(http.MethodDelete) }

// Header sets a single header, replacing earlier values.
func (o *Options) Header(key, value string) *Options {
	if o.headers == nil {
		o.headers = make(http.Header)
	}
	o.headers.Set(key, value)
	return o
}

// Headers merges a map of headers.
func (o *Options) Headers(h map[string]string) *Options {
	for k, v := range h {
		o.Header(k, v)
	}
	return o
}

// Bearer sets the Authorization: Bearer <token> header.
func (o *Options) Bearer(token string) *Options {
	return o.Header("Authorization", "Bearer "+token)
}

// Body sets the request body. Strings and byte slices are sent raw, an
// io.Reader is streamed as-is and anything else is marshalled to JSON.
func (o *Options) Body(v interface{}) *Options {
	o.body = v
	return o
}

// Method reports the HTTP method, GET when unset.
func (o *Options) Method() string {
	if o == nil || o.method == "" {
		return http.MethodGet
	}
	return o.method
}

// NewRequest builds the *http.Request described by o for url.
func (o *Options) NewRequest(ctx context.Context, url string) (*http.Request, error) {
	var (
		body io.Reader
		ct   string
		err  error
	)
	if o != nil {
		body, ct, err = o.buildBody()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, o.Method(), url, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}

	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if o != nil {
		for k, vs := range o.headers {
			req.Header[k] = append([]string(nil), vs...)
		}
	}

	return req, nil
}

func (o *Options) buildBody() (io.Reader, string, error) {
	if o.body == nil {
		return nil, "", nil
	}
	switch v := o.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain; charset=utf-8", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	case io.Reader:
		return v, "", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("client: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ------------------- Send -------------------

// Do sends one request to url. A nil c uses DefaultClient, nil opts is a GET.
// Transport errors are returned as produced by c, so callers can match them
// with errors.Is/As.
func Do(ctx context.Context, c *http.Client, url string, opts *Options) (*http.Response, error) {
	if c == nil {
		c = DefaultClient
	}

	req, err := opts.NewRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	return c.Do(req)
}

// ReadText drains and closes resp.Body.
func ReadText(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("client: read body: %w", err)
	}
	return string(raw), nil
}
