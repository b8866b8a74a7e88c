package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-catalog/internal/http/ban"
	"github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func get(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remote
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_ThrottlesWithoutRedis(t *testing.T) {
	limiter := rate_limiter.NewVisitorLimiter(0.001, 2, time.Minute)
	h := RateLimit(limiter, nil, nil, quietLogger())(ok)

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:5001").Code)

	rr := get(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "too many requests")

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:5000").Code)
}

func TestRateLimit_BansRepeatOffenders(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tracker := ban.NewTracker(redissvc.NewRedisService(rdb), ban.Options{
		MaxStrikes:   2,
		StrikeWindow: time.Minute,
		BanDuration:  time.Hour,
	}, quietLogger())
	limiter := rate_limiter.NewVisitorLimiter(0.001, 1, time.Minute)
	h := RateLimit(limiter, tracker, nil, quietLogger())(ok)

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusForbidden, get(h, "10.0.0.1:1").Code, "second strike bans")

	limiter.CleanupAllVisitors()
	assert.Equal(t, http.StatusForbidden, get(h, "10.0.0.1:1").Code, "ban outlives the token bucket")
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.9:1").Code)

	mr.FastForward(2 * time.Hour)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1").Code)
}

type brokenBans struct{}

func (brokenBans) IsBanned(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (brokenBans) RecordStrike(context.Context, string, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit_FailsOpenOnBanErrors(t *testing.T) {
	limiter := rate_limiter.NewVisitorLimiter(0.001, 1, time.Minute)
	h := RateLimit(limiter, brokenBans{}, nil, quietLogger())(ok)

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.1:1").Code)
}

func TestSecureHeaders(t *testing.T) {
	h := SecureHeaders(quietLogger(), false)(ok)

	rr := get(h, "10.0.0.1:1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	get(h, "10.0.0.1:1")

	assert.Contains(t, buf.String(), "status=201")
	assert.Contains(t, buf.String(), "path=/api/products")
}
