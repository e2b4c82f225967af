package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitPerGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		switch c.FullPath() {
		case "/upload":
			return "UPLOAD"
		case "/copilot":
			return "COPILOT"
		}
		return ""
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDKey, "7")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: groupFor,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"UPLOAD":  {Rate: 1, Burst: 2},
			"COPILOT": {Rate: 5, Burst: 10},
		},
	}))
	r.POST("/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/copilot", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Burst of 2 uploads passes, third is limited.
	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/upload", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("upload %d expected 200, got %d", i+1, resp.Code)
		}
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/upload", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// Copilot has its own bucket and is unaffected.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/copilot", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("copilot expected 200, got %d", resp.Code)
	}
}

func TestRateLimitRecoversOverTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("7|UPLOAD", rule); !ok {
		t.Fatalf("first request should pass")
	}
	if ok, retry := limiter.Allow("7|UPLOAD", rule); ok || retry <= 0 {
		t.Fatalf("second request should be limited with positive retry, got ok=%v retry=%v", ok, retry)
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("7|UPLOAD", rule); !ok {
		t.Fatalf("request after refill should pass")
	}
}
