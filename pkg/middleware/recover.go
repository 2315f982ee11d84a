package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/liveserver/pkg/logger"
)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and answers 500 with a small JSON body.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", err),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"status":  http.StatusInternalServerError,
				"message": "Internal Server Error",
			})
		}()
		next.ServeHTTP(w, r)
	})
}
