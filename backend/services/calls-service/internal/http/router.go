package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"billcalls/backend/services/calls-service/internal/http/middleware"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	CallLog     http.HandlerFunc
	CallInvoice http.HandlerFunc
	Health      http.HandlerFunc
}

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	if routes.CallLog != nil {
		mux.Handle("/call-log", method(http.MethodPost, routes.CallLog))
	}
	if routes.CallInvoice != nil {
		invoice := middleware.BearerAuth(opts.JWTSecret)(method(http.MethodGet, routes.CallInvoice))
		// A missing source reaches the handler so it can answer 400.
		mux.Handle("/call-invoice", invoice)
		mux.Handle("/call-invoice/{$}", invoice)
		mux.Handle("/call-invoice/{source}", invoice)
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return middleware.RequestLogger(logger)(mux)
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
