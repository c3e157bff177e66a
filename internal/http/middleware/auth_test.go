package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/http/session"
)

// newGatedApp mounts the session gate over the admin visit routes. The
// manager has no Redis client: every rejection below must happen at the
// cookie/signature stage, before any store access.
func newGatedApp() *fiber.App {
	sessions := session.NewManager(nil, []byte("test-secret"), time.Hour)
	gate := RequireAuth(sessions)

	app := fiber.New()
	app.Get("/api/visits", gate, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"visits": []any{}, "total": 0})
	})
	app.Get("/api/visits/stats", gate, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"total": 0})
	})
	return app
}

func getWithCookie(t *testing.T, app *fiber.App, path, cookie string) int {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", session.CookieName+"="+cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	app := newGatedApp()

	for _, path := range []string{"/api/visits", "/api/visits/stats"} {
		if status := getWithCookie(t, app, path, ""); status != fiber.StatusUnauthorized {
			t.Fatalf("%s without cookie: expected 401, got %d", path, status)
		}
	}
}

func TestRequireAuth_RejectsGarbageCookie(t *testing.T) {
	app := newGatedApp()

	for _, cookie := range []string{
		"garbage",
		"AAAABBBBCCCCDDDDEEEEFFFFGGG.AAAABBBBCCCCDDDDEEEEFF",
		"not-base64!.also-not-base64!",
	} {
		if status := getWithCookie(t, app, "/api/visits", cookie); status != fiber.StatusUnauthorized {
			t.Fatalf("cookie %q: expected 401, got %d", cookie, status)
		}
	}
}

func TestRequireAuth_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	// Well-formed token, wrong secret: signature verification must reject it
	// without any session lookup.
	token, _, err := session.NewSigner([]byte("another-secret"), time.Hour).Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	app := newGatedApp()
	for _, path := range []string{"/api/visits", "/api/visits/stats"} {
		if status := getWithCookie(t, app, path, token); status != fiber.StatusUnauthorized {
			t.Fatalf("%s with foreign token: expected 401, got %d", path, status)
		}
	}
}
