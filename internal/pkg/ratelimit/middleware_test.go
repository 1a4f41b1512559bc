package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := New(2, time.Minute)
	r := gin.New()
	r.Use(Middleware(limiter))
	r.POST("/reports", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reports", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, 429, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestUserBasedMiddlewareKeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := New(1, time.Minute)
	r := gin.New()
	r.POST("/reviews", func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-Test-User"))
	}, UserBasedMiddleware(limiter), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// Two different users each get their own window.
	for _, user := range []string{"alice", "bob"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reviews", nil)
		req.Header.Set("X-Test-User", user)
		r.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)
	}

	// Second call for the same user is rejected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reviews", nil)
	req.Header.Set("X-Test-User", "alice")
	r.ServeHTTP(w, req)
	require.Equal(t, 429, w.Code)
}

func TestCleanupDropsExpiredKeys(t *testing.T) {
	limiter := New(5, 20*time.Millisecond)
	limiter.Allow("stale")
	limiter.Allow("fresh")

	time.Sleep(30 * time.Millisecond)
	limiter.Allow("fresh")
	limiter.Cleanup()

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	require.NotContains(t, limiter.requests, "stale")
	require.Contains(t, limiter.requests, "fresh")
}

func TestAllowRecoversAfterWindow(t *testing.T) {
	limiter := New(1, 20*time.Millisecond)
	require.True(t, limiter.Allow("k"))
	require.False(t, limiter.Allow("k"))

	time.Sleep(30 * time.Millisecond)
	require.True(t, limiter.Allow("k"))
}
