package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTeardownTimeout bounds WithServer's stop so a hung request makes it fail.
func withTeardownTimeout(t *testing.T, d time.Duration) {
	t.Helper()
	prev := teardownContext
	teardownContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.WithoutCancel(ctx), d)
	}
	t.Cleanup(func() { teardownContext = prev })
}

// hangingServer returns a callback that leaves one request stuck in a handler
// and then fails with cbErr. Closing release unblocks the handler.
func hangingServer(cbErr error, release <-chan struct{}) func(context.Context, *Server) error {
	return func(ctx context.Context, s *Server) error {
		entered := make(chan struct{})
		s.App().Get("/hang", "", func(http.ResponseWriter, *http.Request) {
			close(entered)
			<-release
		})

		go func() {
			if resp, err := s.Fetch(ctx, "/hang", nil); err == nil {
				resp.Body.Close()
			}
		}()
		<-entered
		return cbErr
	}
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWithServer_CallbackAndStopErrorsAreJoined(t *testing.T) {
	withTeardownTimeout(t, 50*time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	cbErr := errors.New("callback failed")
	var instance *Server
	fn := hangingServer(cbErr, release)

	err := WithServer(context.Background(), func(ctx context.Context, s *Server) error {
		instance = s
		return fn(ctx, s)
	}, quiet())

	require.Error(t, err)
	assert.ErrorIs(t, err, cbErr)

	var closeErr *CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.ErrorIs(t, closeErr, context.DeadlineExceeded)
	assert.False(t, instance.Bound())
}

func TestWithServer_StopErrorAloneIsReturned(t *testing.T) {
	withTeardownTimeout(t, 50*time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	err := WithServer(context.Background(), hangingServer(nil, release), quiet())

	var closeErr *CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, error(closeErr), err, "not wrapped in a join")
}

func TestStop_FailureStillUnbinds(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := New(quiet())
	require.NoError(t, hangingServer(nil, release)(context.Background(), s))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Stop(ctx)
	var closeErr *CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.NotEmpty(t, closeErr.URL)
	assert.False(t, s.Bound())
	assert.NoError(t, s.Stop(context.Background()))
}
