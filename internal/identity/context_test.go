package identity

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestFromContext(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/with", func(c *fiber.Ctx) error {
		c.Locals(LocalsKey, &jwt.Token{Claims: &auth.Claims{
			UserID: id,
			Email:  "ada@example.com",
			Role:   "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}})
		who, err := FromContext(c)
		if err != nil {
			return err
		}
		return c.SendString(who.UserID.String() + " " + who.Email + " " + who.Role)
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		if _, err := GetUserID(c); err != ErrNoIdentity {
			t.Errorf("GetUserID without token = %v", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/with", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if want := id.String() + " ada@example.com admin"; string(body) != want {
		t.Errorf("body = %q, want %q", body, want)
	}

	if _, err := app.Test(httptest.NewRequest("GET", "/without", nil), -1); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
}
