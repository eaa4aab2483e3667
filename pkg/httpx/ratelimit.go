package httpx

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harshalself/authgate/pkg/slogx"
)

// RateLimitConfig defines one endpoint class's fixed-window policy.
type RateLimitConfig struct {
	// RequestsPerWindow is the ceiling within a window.
	RequestsPerWindow int
	// Window is the fixed time window.
	Window time.Duration
}

// Default per-class profiles. These can be overridden via environment
// variables (RATELIMIT_{CLASS}_REQUESTS, RATELIMIT_{CLASS}_WINDOW_SEC).
var (
	// AuthLimit for login/register/refresh (credential stuffing defence).
	AuthLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            15 * time.Minute,
	}

	// APILimit for general authenticated traffic.
	APILimit = RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
	}

	// UploadLimit for file upload routes (storage exhaustion defence).
	UploadLimit = RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
	}
)

func init() {
	AuthLimit = ParseRateLimitFromEnv("AUTH", AuthLimit)
	APILimit = ParseRateLimitFromEnv("API", APILimit)
	UploadLimit = ParseRateLimitFromEnv("UPLOAD", UploadLimit)
}

// ParseRateLimitFromEnv reads rate limit configuration from environment
// variables following the pattern RATELIMIT_{prefix}_{field}.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	return config
}

// ClientIP extracts the client IP address from the request. It handles
// X-Forwarded-For and X-Real-IP headers for proxied requests.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimiter enforces per-class fixed-window ceilings keyed by client IP.
// The counters live behind CounterStore so a single instance can use the
// in-process store while a fleet shares a Redis-backed one.
type RateLimiter struct {
	counters CounterStore

	// SkipLoopback disables enforcement for loopback clients. Only set in
	// dev configuration; production wiring leaves it false.
	SkipLoopback bool
}

func NewRateLimiter(counters CounterStore) *RateLimiter {
	return &RateLimiter{counters: counters}
}

// Limit returns a middleware enforcing cfg for the named endpoint class.
// The counter key is (class, client IP): pre-authentication no identity
// context exists yet, so the IP is the only stable client identity.
func (rl *RateLimiter) Limit(class string, cfg RateLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			ip := ClientIP(r)
			if rl.SkipLoopback && isLoopback(ip) {
				next.ServeHTTP(w, r)
				return
			}

			count, _, err := rl.counters.Incr(ctx, class+":"+ip, cfg.Window)
			if err != nil {
				// A broken counter store must not take the API down with
				// it: allow the request and scream in the logs.
				log.Error("rate limit: counter store failure, allowing request", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(cfg.RequestsPerWindow) {
				retryAfter := int(cfg.Window.Seconds())

				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded",
					"class", class,
					"ip", ip,
					"path", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteErrorRetry(w, r, http.StatusTooManyRequests,
					CodeRateLimitExceeded,
					"Too many requests. Please try again later.",
					retryAfter,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CodeRateLimitExceeded is the machine-readable code carried by 429 bodies.
const CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

func isLoopback(ip string) bool {
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.IsLoopback()
	}
	return false
}
