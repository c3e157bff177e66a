package server

import (
	"strings"
	"testing"
	"time"

	"github.com/julienvb/portfolio-api/internal/http/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// newTestServer builds a server with inert collaborators. The Redis client
// points nowhere; route registration never dials it.
func newTestServer() *Server {
	return New(Dependencies{
		Logger:   zap.NewNop(),
		Redis:    redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
		Sessions: session.NewManager(nil, []byte("test-secret"), time.Hour),
	})
}

// routeCount counts registered handlers for a method+path, ignoring the
// trailing-slash variants Fiber produces for group roots.
func routeCount(s *Server, method, path string) int {
	count := 0
	for _, route := range s.App().GetRoutes() {
		if route.Method != method {
			continue
		}
		if strings.TrimSuffix(route.Path, "/") == path {
			count++
		}
	}
	return count
}

func TestServer_ThrottlesAnonymousWriteEndpoints(t *testing.T) {
	s := newTestServer()

	// Each throttled path must be registered twice: once by the limiter,
	// once by its handler.
	for _, path := range throttledPaths {
		if got := routeCount(s, "POST", path); got < 2 {
			t.Fatalf("expected %s to carry the rate limiter, found %d route entries", path, got)
		}
	}

	// Admin endpoints stay out of the limiter.
	if got := routeCount(s, "GET", "/api/visits"); got != 1 {
		t.Fatalf("expected a single GET /api/visits route, found %d", got)
	}
}

func TestServer_SkipsLimiterWithoutRedis(t *testing.T) {
	s := New(Dependencies{
		Logger:   zap.NewNop(),
		Sessions: session.NewManager(nil, []byte("test-secret"), time.Hour),
	})

	for _, path := range throttledPaths {
		if got := routeCount(s, "POST", path); got != 1 {
			t.Fatalf("expected %s to have only its handler without Redis, found %d", path, got)
		}
	}
}
