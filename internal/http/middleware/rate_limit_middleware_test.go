package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisClientForTest(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	return server, client
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLocalLimiterEnforcesWindow(t *testing.T) {
	h := NewRateLimiter(2, time.Minute, "test").Middleware()(okHandler())

	for i := 0; i < 2; i++ {
		if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr := hit(h, "1.2.3.4:1000")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header on deny")
	}
}

func TestLocalLimiterKeysByClientIP(t *testing.T) {
	h := NewRateLimiter(1, time.Minute, "test").Middleware()(okHandler())

	if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("first ip status=%d", rr.Code)
	}
	if rr := hit(h, "5.6.7.8:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("second ip must have its own window, status=%d", rr.Code)
	}
	if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("first ip second hit status=%d want 429", rr.Code)
	}
}

func TestRateLimitHeadersOnAllow(t *testing.T) {
	h := NewRateLimiter(5, time.Minute, "test").Middleware()(okHandler())

	rr := hit(h, "1.2.3.4:1000")
	if rr.Header().Get("X-RateLimit-Limit") != "5" {
		t.Fatalf("limit header=%q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("remaining header=%q", rr.Header().Get("X-RateLimit-Remaining"))
	}
	if rr.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("missing reset header")
	}
}

func TestRedisLimiterSharesWindowAcrossInstances(t *testing.T) {
	_, client := newRedisClientForTest(t)
	limiter := NewRedisWindowLimiter(client, "test")

	a := NewDistributedRateLimiter(limiter, 2, time.Minute, FailClosed, "test").Middleware()(okHandler())
	b := NewDistributedRateLimiter(limiter, 2, time.Minute, FailClosed, "test").Middleware()(okHandler())

	if rr := hit(a, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("instance a status=%d", rr.Code)
	}
	if rr := hit(b, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("instance b status=%d", rr.Code)
	}
	if rr := hit(a, "1.2.3.4:1000"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("shared window not enforced, status=%d", rr.Code)
	}
}

func TestRedisLimiterWindowExpiry(t *testing.T) {
	server, client := newRedisClientForTest(t)
	limiter := NewRedisWindowLimiter(client, "test")
	h := NewDistributedRateLimiter(limiter, 1, time.Minute, FailClosed, "test").Middleware()(okHandler())

	if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("first status=%d", rr.Code)
	}
	if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d want 429", rr.Code)
	}

	server.FastForward(2 * time.Minute)
	if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("after window expiry status=%d", rr.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (Decision, error) {
	return Decision{}, errors.New("backend down")
}

func TestFailureModes(t *testing.T) {
	t.Run("fail open allows", func(t *testing.T) {
		h := NewDistributedRateLimiter(failingLimiter{}, 1, time.Minute, FailOpen, "test").Middleware()(okHandler())
		if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusNoContent {
			t.Fatalf("status=%d want 204", rr.Code)
		}
	})
	t.Run("fail closed denies", func(t *testing.T) {
		h := NewDistributedRateLimiter(failingLimiter{}, 1, time.Minute, FailClosed, "test").Middleware()(okHandler())
		if rr := hit(h, "1.2.3.4:1000"); rr.Code != http.StatusTooManyRequests {
			t.Fatalf("status=%d want 429", rr.Code)
		}
	})
}
