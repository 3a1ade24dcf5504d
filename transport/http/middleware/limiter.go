package middleware

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	"tourdesk/shared/logger"
	"tourdesk/transport/http/response"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// RateLimit counts requests per client IP and user agent in fixed windows.
// The window number is part of the key, so a counter expires with its
// window no matter how often it is rewritten. Callers holding the service
// API key, such as the wholesaler push, are not counted. A failing cache
// never blocks traffic.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || limits.WindowSeconds <= 0 || a.trusted(r) {
				next.ServeHTTP(w, r)

				return
			}

			window := time.Now().Unix() / int64(limits.WindowSeconds)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, strconv.FormatInt(window, 10), a.getClientIP(r), a.getUA(r))
			log := logger.FromContext(r.Context())

			count := 0

			err := a.cache.Get(r.Context(), cacheKey, &count)
			if err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Msg("rate limiter cache unavailable, letting request through")
				next.ServeHTTP(w, r)

				return
			}

			count++

			if count > limits.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			if err = a.cache.Save(r.Context(), cacheKey, count, limits.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to save rate limiter counter")
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(limits.MaxRequests-count))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) trusted(r *http.Request) bool {
	key := r.Header.Get(constant.RequestHeaderAPIKey)

	return key != "" && a.config.App.APIKey != "" &&
		subtle.ConstantTimeCompare([]byte(key), []byte(a.config.App.APIKey)) == 1
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownAgent
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
