package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/renci-ner/pkg/handlers"
)

// Recover converts a handler panic into a 500 JSON error response.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					handlers.RespondError(
						w, logger.With("request_id", GetRequestID(r.Context())),
						http.StatusInternalServerError,
						fmt.Errorf("internal error: %v", v),
					)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
