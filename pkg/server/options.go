package server

import (
	"log/slog"
	"net/http"

	"github.com/shashiranjanraj/liveserver/pkg/router"
)

// Option configures a Server in New.
type Option func(*Server)

// WithLogger sets the lifecycle logger. Default: logger.L.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClient sets the client used by Fetch. Default: client.DefaultClient.
func WithClient(c *http.Client) Option {
	return func(s *Server) {
		s.client = c
	}
}

// WithRouter serves r instead of a fresh router.
func WithRouter(r *router.Router) Option {
	return func(s *Server) {
		if r != nil {
			s.app = r
		}
	}
}

// WithHTTPServer adjusts every *http.Server created by Listen, e.g. to set
// timeouts. Addr and Handler are overwritten afterwards.
func WithHTTPServer(fn func(*http.Server)) Option {
	return func(s *Server) {
		if fn != nil {
			s.tune = append(s.tune, fn)
		}
	}
}
