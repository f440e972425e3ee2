// Package identity reads the authenticated caller from a Fiber context.
package identity

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is where the JWT middleware stores the verified token.
const LocalsKey = "user"

var ErrNoIdentity = errors.New("no authenticated user in context")

type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// FromContext returns the identity carried by the verified bearer token.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == uuid.Nil {
		return Identity{}, errors.New("invalid claims")
	}

	return Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
