package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func serve(mw gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestRequestIDAssigned(t *testing.T) {
	w := serve(RequestID())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	w := serve(SecurityHeaders())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

func TestRateLimitAllows(t *testing.T) {
	lim := &fakeLimiter{allowed: true}
	w := serve(RateLimit(lim, zap.NewNop()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, lim.keys, 1)
}

func TestRateLimitDenies(t *testing.T) {
	lim := &fakeLimiter{allowed: false}
	w := serve(RateLimit(lim, zap.NewNop()))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	lim := &fakeLimiter{err: errors.New("redis down")}
	w := serve(RateLimit(lim, zap.NewNop()))
	assert.Equal(t, http.StatusOK, w.Code)
}
