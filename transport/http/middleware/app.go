package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tourdesk/config"
	"tourdesk/infras/metrics"
	"tourdesk/infras/otel"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	otelHTTPScopeName = "http"
	unmatchedRoute    = "unmatched"
)

type AppMiddleware interface {
	RequestID(next http.Handler) http.Handler
	Tracing(next http.Handler) http.Handler
	Metrics(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel    otel.Otel
	config  *config.Config
	cache   cache.RedisCache
	metrics metrics.Metrics
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache, metrics metrics.Metrics) AppMiddleware {
	return &appMiddleware{
		otel:    otel,
		config:  config,
		cache:   cache,
		metrics: metrics,
	}
}

// RequestID keeps the caller's X-Request-ID or mints one, and echoes it back.
func (a *appMiddleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constant.RequestHeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(constant.RequestHeaderRequestID, requestID)

		ctx := context.WithValue(r.Context(), constant.ContextKeyRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": r.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.route":       routePattern(r),
			"http.status_code": ww.Status(),
		})
	})
}

// Metrics records request counts and latency by route pattern so that ids
// in the path do not explode label cardinality.
func (a *appMiddleware) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		a.metrics.ObserveHTTP(r.Method, routePattern(r), ww.Status(), time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}

	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}

	return unmatchedRoute
}
