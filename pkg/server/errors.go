package server

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbound is returned by accessors that need a listening server.
	ErrUnbound = errors.New("server: not listening")

	// ErrAlreadyBound is returned by Listen on a server that is already listening.
	ErrAlreadyBound = errors.New("server: already listening")
)

// BindError reports a failed Listen. Err is the error from the OS, so
// errors.Is(err, syscall.EADDRINUSE) works through it.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("server: listen on %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// CloseError reports a failed Stop. The listener is closed regardless.
type CloseError struct {
	URL string
	Err error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("server: close %s: %v", e.URL, e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }
