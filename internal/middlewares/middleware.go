package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type Middleware func(next http.Handler) http.Handler

// Chain chains the registered middlewares in the same arguments order.
// This means the last middleware argument will be the last to be called.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKeyRequestID int

const RequestIDKey ctxKeyRequestID = 0

// RequestID stamps every request with an id, honoring one supplied by an
// upstream proxy over minting a fresh one. The id is stamped onto the
// request context as a ready-made slog.Attr so a ContextHandler can project
// it onto every log line without re-deriving the attribute at each site.
func RequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, slog.String("request_id", requestID))

		w.Header().Set("X-Request-ID", requestID)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}
