// Package server wraps an http.Server around a router.Router with explicit,
// blocking lifecycle calls.
//
//	s := server.New()
//	s.App().Get("/", "home", func(w http.ResponseWriter, r *http.Request) {
//	    fmt.Fprint(w, "Hello World!")
//	})
//
//	base, err := s.Listen(ctx, 0, "") // ephemeral port, all interfaces
//	if err != nil {
//	    return err
//	}
//	defer s.Stop(context.Background())
//
// A Server is either unbound or bound. Listen moves it to bound, Stop back to
// unbound, and Fetch binds it on demand. Lifecycle calls on one Server are
// expected to be serialized by the caller; separate Servers share nothing.
// Use WithServer to get a Server that is always stopped afterwards.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/shashiranjanraj/liveserver/pkg/client"
	"github.com/shashiranjanraj/liveserver/pkg/logger"
	"github.com/shashiranjanraj/liveserver/pkg/metrics"
	"github.com/shashiranjanraj/liveserver/pkg/router"
)

type Server struct {
	app    *router.Router
	client *http.Client
	log    *slog.Logger
	tune   []func(*http.Server)

	mu      sync.Mutex
	httpSrv *http.Server
	ln      net.Listener
	addr    Addr
	served  chan struct{}
}

// New creates an unbound Server with its own router. No network activity
// happens until Listen or Fetch.
func New(opts ...Option) *Server {
	s := &Server{
		app: router.New(),
		log: logger.L,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// App returns the router served by s. Register routes on it directly.
func (s *Server) App() *router.Router {
	return s.app
}

// Listen binds host:port and starts serving. Port 0 picks an ephemeral port
// and an empty host binds all interfaces. It returns the base URL.
//
// A failed bind returns *BindError and leaves s unbound. Listening twice
// returns ErrAlreadyBound.
func (s *Server) Listen(ctx context.Context, port int, host string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv != nil {
		return "", ErrAlreadyBound
	}

	address := net.JoinHostPort(host, strconv.Itoa(port))
	if port < 0 || port > 65535 {
		err := &BindError{Addr: address, Err: errors.New("port out of range")}
		metrics.RecordListen(err)
		return "", err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		metrics.RecordListen(err)
		return "", &BindError{Addr: address, Err: err}
	}

	addr, err := AddrOf(ln.Addr())
	if err != nil {
		_ = ln.Close()
		metrics.RecordListen(err)
		return "", &BindError{Addr: address, Err: err}
	}

	srv := &http.Server{ReadHeaderTimeout: 30 * time.Second}
	for _, fn := range s.tune {
		fn(srv)
	}
	srv.Addr = ln.Addr().String()
	srv.Handler = s.app

	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server stopped serving", "addr", srv.Addr, "error", err)
		}
	}()

	s.httpSrv, s.ln, s.addr, s.served = srv, ln, addr, served
	metrics.RecordListen(nil)

	base := addr.URL()
	s.log.Info("server listening", "url", base, "addr", srv.Addr)
	return base, nil
}

// Stop shuts the listener down and waits for in-flight requests, bounded by
// ctx. Stopping an unbound server is a no-op.
//
// If the graceful shutdown fails, remaining connections are closed and the
// failure is returned as *CloseError. s is unbound afterwards in every case.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, ln, served, addr := s.httpSrv, s.ln, s.served, s.addr
	s.httpSrv, s.ln, s.served, s.addr = nil, nil, nil, Addr{}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	// The lock is released here: handlers may still call back into s while
	// they drain.
	err := srv.Shutdown(ctx)
	if err != nil {
		_ = srv.Close()
	}
	_ = ln.Close()
	<-served

	metrics.RecordStop(err)

	base := addr.URL()
	if err != nil {
		s.log.Warn("server stop failed", "url", base, "error", err)
		return &CloseError{URL: base, Err: err}
	}

	s.log.Info("server stopped", "url", base)
	return nil
}

// Fetch requests path relative to the base URL, listening on an ephemeral
// port first if s is unbound. path may also be absolute. Errors from the
// implicit Listen and from the client are returned unchanged. The caller
// must close the response body.
func (s *Server) Fetch(ctx context.Context, path string, opts *client.Options) (resp *http.Response, err error) {
	if !s.Bound() {
		if _, err := s.Listen(ctx, 0, ""); err != nil && !errors.Is(err, ErrAlreadyBound) {
			return nil, err
		}
	}

	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveFetch(start, err) }()

	s.log.Debug("server fetch", "method", opts.Method(), "url", target)
	return client.Do(ctx, s.client, target, opts)
}

func (s *Server) resolve(path string) (string, error) {
	base, err := s.URL()
	if err != nil {
		return "", err
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// Bound reports whether s is listening.
func (s *Server) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpSrv != nil
}

// Addr returns the bound address, or ErrUnbound.
func (s *Server) Addr() (Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv == nil {
		return Addr{}, ErrUnbound
	}
	return s.addr, nil
}

// Host returns the host part of the base URL, without IPv6 brackets.
func (s *Server) Host() (string, error) {
	addr, err := s.Addr()
	if err != nil {
		return "", err
	}
	return addr.Host(), nil
}

// Port returns the bound port.
func (s *Server) Port() (int, error) {
	addr, err := s.Addr()
	if err != nil {
		return 0, err
	}
	return addr.Port, nil
}

// URL returns the base URL, e.g. "http://localhost:41234/".
func (s *Server) URL() (string, error) {
	addr, err := s.Addr()
	if err != nil {
		return "", err
	}
	return addr.URL(), nil
}
