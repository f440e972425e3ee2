package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeChecker struct {
	admin bool
	err   error
}

func (f fakeChecker) IsAdmin(context.Context, uuid.UUID) (bool, error) {
	return f.admin, f.err
}

func newApp(checker AdminChecker) *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	tokens := auth.NewTokenService("secret", time.Hour)
	app.Get("/me", JWTProtected(tokens), ok)
	app.Get("/admin", JWTProtected(tokens), AdminRequired(checker), ok)
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	header := ""
	if token != "" {
		header = "Bearer " + token
	}
	return getWithHeader(t, app, path, header)
}

func getWithHeader(t *testing.T, app *fiber.App, path, header string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func TestJWTProtected(t *testing.T) {
	app := newApp(fakeChecker{})
	token, _, err := auth.NewTokenService("secret", time.Hour).Issue(uuid.New(), "a@example.com", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, _, _ := auth.NewTokenService("secret", -time.Second).Issue(uuid.New(), "a@example.com", "user")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "abc.def.ghi", fiber.StatusForbidden},
		{"expired", expired, fiber.StatusForbidden},
		{"valid", token, fiber.StatusNoContent},
		{"no expiry", sign(t, jwt.SigningMethodHS256, &auth.Claims{UserID: uuid.New(), Role: "user"}), fiber.StatusForbidden},
		{"no user id", sign(t, jwt.SigningMethodHS256, &auth.Claims{
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}), fiber.StatusForbidden},
		{"hs384", sign(t, jwt.SigningMethodHS384, &auth.Claims{
			UserID:           uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}), fiber.StatusForbidden},
	}
	for _, tt := range tests {
		if got := get(t, app, "/me", tt.token); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestJWTProtectedRequiresBearerScheme(t *testing.T) {
	app := newApp(fakeChecker{})
	token, _, _ := auth.NewTokenService("secret", time.Hour).Issue(uuid.New(), "a@example.com", "user")

	tests := []struct {
		header string
		want   int
	}{
		{"Basic dXNlcjpwYXNz", fiber.StatusUnauthorized},
		{"Bearer", fiber.StatusUnauthorized},
		{"Bearer   ", fiber.StatusUnauthorized},
		{token, fiber.StatusUnauthorized},
		{"Bearer not-a-jwt", fiber.StatusForbidden},
		{"Bearer " + token, fiber.StatusNoContent},
	}
	for _, tt := range tests {
		if got := getWithHeader(t, app, "/me", tt.header); got != tt.want {
			t.Errorf("Authorization %q: status = %d, want %d", tt.header, got, tt.want)
		}
	}
}

func sign(t *testing.T, method jwt.SigningMethod, claims *auth.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAdminRequired(t *testing.T) {
	token, _, _ := auth.NewTokenService("secret", time.Hour).Issue(uuid.New(), "a@example.com", "admin")

	tests := []struct {
		name    string
		checker fakeChecker
		want    int
	}{
		{"admin", fakeChecker{admin: true}, fiber.StatusNoContent},
		{"not admin", fakeChecker{}, fiber.StatusForbidden},
		{"deleted user", fakeChecker{err: services.ErrUserNotFound}, fiber.StatusForbidden},
		{"store down", fakeChecker{err: errors.New("db down")}, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := get(t, newApp(tt.checker), "/admin", token); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
	}
}
