package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d got %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/login", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w1, req1)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/login", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w2, req2)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Fatalf("different IPs must not share a window: %d, %d", w1.Code, w2.Code)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := func() int {
		w := httptest.NewRecorder()
		rq := httptest.NewRequest(http.MethodPost, "/login", nil)
		rq.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, rq)
		return w.Code
	}

	if got := req(); got != http.StatusOK {
		t.Fatalf("first request got %d", got)
	}
	if got := req(); got != http.StatusTooManyRequests {
		t.Fatalf("second request got %d, want 429", got)
	}

	time.Sleep(30 * time.Millisecond)

	if got := req(); got != http.StatusOK {
		t.Fatalf("request after window reset got %d, want 200", got)
	}
}
