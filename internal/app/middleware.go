package app

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/smallwat3r/passcheck/internal/utility"

	"github.com/redis/go-redis/v9"
)

// ContentLengthValidator rejects POST requests without a Content-Length or
// with one larger than maxSize.
func ContentLengthValidator(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				// -1 when unknown or chunked
				if r.ContentLength < 0 {
					utility.HttpError(w, http.StatusLengthRequired,
						"Content-Length header is required")
					return
				}
				if r.ContentLength > maxSize {
					utility.HttpError(w, http.StatusRequestEntityTooLarge,
						"Content-Length exceeds maximum allowed size")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type SecurityHeadersConfig struct {
	RequireHTTPS bool
}

// SecurityHeaders adds the response headers for a JSON-only API and, when
// configured, redirects plain HTTP to HTTPS.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// /health stays reachable over plain HTTP for internal probes
			if cfg.RequireHTTPS && r.URL.Path != "/health" {
				isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
				if !isHTTPS {
					target := "https://" + r.Host + r.URL.RequestURI()
					// 308 keeps the method and body of the POST
					http.Redirect(w, r, target, http.StatusPermanentRedirect)
					return
				}
				w.Header().Set("Strict-Transport-Security",
					"max-age=31536000; includeSubDomains")
			}

			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Content-Security-Policy",
				"default-src 'none'; frame-ancestors 'none'")
			w.Header().Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}

type RateLimitConfig struct {
	CreateLimit  int           // max new sessions per window
	AttemptLimit int           // max password attempts per window
	Window       time.Duration // idle time before a client's count resets
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		CreateLimit:  20,
		AttemptLimit: 60,
		Window:       time.Minute,
	}
}

// RateLimiterMiddleware counts POST requests per client IP and route kind
// in Redis.
type RateLimiterMiddleware struct {
	rdb          *redis.Client
	createLimit  int
	attemptLimit int
	window       time.Duration
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		rdb:          rdb,
		createLimit:  cfg.CreateLimit,
		attemptLimit: cfg.AttemptLimit,
		window:       cfg.Window,
	}
}

func (m *RateLimiterMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rdb == nil || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		kind, limit := "create", m.createLimit
		if strings.HasSuffix(r.URL.Path, "/attempts") {
			kind, limit = "attempt", m.attemptLimit
		}

		key := fmt.Sprintf("passcheck:ratelimit:%s:%s", clientIP(r), kind)

		// INCR and EXPIRE in one transaction so a key never lives without a TTL.
		pipe := m.rdb.TxPipeline()
		incr := pipe.Incr(r.Context(), key)
		pipe.Expire(r.Context(), key, m.window)
		if _, err := pipe.Exec(r.Context()); err != nil {
			log.Printf("rate limit redis error: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if int(incr.Val()) > limit {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(m.window.Seconds())))
			utility.HttpError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr, which middleware.RealIP has
// already replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
