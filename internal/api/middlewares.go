package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vetdao/governance-locks/internal/observability/metrics"
	"github.com/vetdao/governance-locks/internal/observability/tracing"
	"github.com/vetdao/governance-locks/internal/types"
)

const (
	traceHeader    = "X-Request-ID"
	maxContentSize = 1 << 20
)

// TracingMiddleware gives every request a logger with a trace id. A valid
// uuid in X-Request-ID is reused and echoed back.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, id := tracing.InjectTraceIDFrom(r.Context(), r.Header.Get(traceHeader))
		w.Header().Set(traceHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MetricsMiddleware records the request duration labelled by route pattern
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordHttpRequestDuration(time.Since(start), route, r.Method, ww.Status())
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("recovered from panic in request handler")
				writeError(w, r, types.NewInternalServiceError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ContentLengthMiddleware rejects bodies that announce more than maxContentSize
func ContentLengthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxContentSize {
			writeError(w, r, types.NewErrorWithMsg(
				http.StatusRequestEntityTooLarge,
				types.BadRequest,
				fmt.Sprintf("request body exceeds %d bytes", maxContentSize),
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware sheds requests above the token bucket of limiter with 429
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, r, types.NewErrorWithMsg(
					http.StatusTooManyRequests,
					types.TooManyRequests,
					"too many requests, please retry later",
				))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
