package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"

	"github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/observability"
)

// BanTracker is the part of ban.Tracker the rate limiter needs.
type BanTracker interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	RecordStrike(ctx context.Context, target, route string) (bool, error)
}

type Config struct {
	Logger     *slog.Logger
	Metrics    *observability.Metrics
	Limiter    *rate_limiter.VisitorLimiter
	Bans       BanTracker
	Timeout    time.Duration
	Production bool
}

// Stack returns the middleware chain in the order it must be installed.
func Stack(cfg Config) []func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	middlewares := []func(http.Handler) http.Handler{
		chimw.RealIP,
		chimw.RequestID,
		RequestLogger(cfg.Logger),
		chimw.Recoverer,
		SecureHeaders(cfg.Logger, cfg.Production),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	if cfg.Limiter != nil {
		middlewares = append(middlewares, RateLimit(cfg.Limiter, cfg.Bans, cfg.Metrics, cfg.Logger))
	}
	return append(middlewares, chimw.Timeout(timeout))
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("remote", r.RemoteAddr))
		})
	}
}

func SecureHeaders(logger *slog.Logger, production bool) func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				logger.Warn("secure headers blocked request", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles per client IP with 429. When bans is set, every
// rejection is a strike and banned clients get 403 until the ban expires.
// Redis failures are logged and the request is let through.
func RateLimit(limiter *rate_limiter.VisitorLimiter, bans BanTracker, metrics *observability.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if bans != nil {
				banned, err := bans.IsBanned(r.Context(), ip)
				if err != nil {
					logger.Error("ban lookup failed", slog.String("ip", ip), slog.Any("error", err))
				}
				if banned {
					metrics.RateLimited("banned")
					reject(w, http.StatusForbidden, "client is temporarily banned")
					return
				}
			}

			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			if bans != nil {
				banned, err := bans.RecordStrike(r.Context(), ip, r.URL.Path)
				if err != nil {
					logger.Error("strike recording failed", slog.String("ip", ip), slog.Any("error", err))
				}
				if banned {
					metrics.RateLimited("banned")
					reject(w, http.StatusForbidden, "client is temporarily banned")
					return
				}
			}

			metrics.RateLimited("throttled")
			w.Header().Set("Retry-After", "1")
			reject(w, http.StatusTooManyRequests, "too many requests")
		})
	}
}

type errorBody struct {
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Timestamp: time.Now().UTC()})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
