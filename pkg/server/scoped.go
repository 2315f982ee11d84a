package server

import (
	"context"
	"errors"
)

// teardownContext derives the context used to stop a server after fn.
// Teardown must not be skipped just because the callback's context ended.
var teardownContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithoutCancel(ctx), func() {}
}

// WithServer creates a Server, passes it to fn and, once fn returns or
// panics, stops it if it is still listening. fn may Listen, Stop and Fetch
// as often as it likes, or not at all.
//
// fn's error is returned as-is. If stopping also fails, both errors are
// joined with fn's first. A panic from fn is re-raised after the server is
// stopped.
func WithServer(ctx context.Context, fn func(ctx context.Context, s *Server) error, opts ...Option) (err error) {
	s := New(opts...)

	defer func() {
		recovered := recover()

		if stopErr := s.teardown(ctx); stopErr != nil {
			switch {
			case recovered != nil:
				s.log.Error("stop after panic failed", "error", stopErr)
			case err == nil:
				err = stopErr
			default:
				err = errors.Join(err, stopErr)
			}
		}

		if recovered != nil {
			panic(recovered)
		}
	}()

	return fn(ctx, s)
}

func (s *Server) teardown(ctx context.Context) error {
	if !s.Bound() {
		return nil
	}

	stopCtx, cancel := teardownContext(ctx)
	defer cancel()
	return s.Stop(stopCtx)
}
