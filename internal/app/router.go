package app

import (
	"net/http"
	"time"

	"github.com/smallwat3r/passcheck/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the middleware settings for NewRouter. A nil
// RateLimiter disables rate limiting.
type RouterConfig struct {
	RateLimiter *RateLimiterMiddleware
	Security    SecurityHeadersConfig
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(SecurityHeaders(cfg.Security))

	r.Get("/health", h.HandleHealth)

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		r.Use(ContentLengthValidator(domain.MaxRequestBodySize))
		r.Post("/sessions", h.HandleCreateSession)
		r.Post("/sessions/{id:[0-9a-fA-F-]{36}}/attempts", h.HandleAttempt)
	})

	return r
}
