package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mapCounter struct {
	counts map[string]int64
	err    error
}

func newMapCounter() *mapCounter {
	return &mapCounter{counts: map[string]int64{}}
}

func (m *mapCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func limitedRouter(counter windowCounter, validate func(string) bool, max int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generate",
		rateLimitWith(counter, validate, zap.NewNop(), max, time.Minute),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func hit(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitCapsAnonymousRequests(t *testing.T) {
	r := limitedRouter(newMapCounter(), func(string) bool { return false }, 2)

	assert.Equal(t, http.StatusOK, hit(r, ""))
	assert.Equal(t, http.StatusOK, hit(r, ""))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, ""))
}

func TestRateLimitCountsUnverifiableToken(t *testing.T) {
	// A made-up bearer token must not buy unmetered access.
	r := limitedRouter(newMapCounter(), func(string) bool { return false }, 1)

	assert.Equal(t, http.StatusOK, hit(r, "junk"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "junk"))
}

func TestRateLimitExemptsValidatedToken(t *testing.T) {
	counter := newMapCounter()
	r := limitedRouter(counter, func(token string) bool { return token == "good" }, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "good"))
	}
	assert.Empty(t, counter.counts, "exempt requests must not touch the counter")
}

func TestRateLimitFailsOpenOnCounterError(t *testing.T) {
	counter := newMapCounter()
	counter.err = errors.New("redis down")
	r := limitedRouter(counter, func(string) bool { return false }, 1)

	assert.Equal(t, http.StatusOK, hit(r, ""))
	assert.Equal(t, http.StatusOK, hit(r, ""))
}
