package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/identity"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminRequired runs after JWTProtected. The role is read from the database
// on every request, so a demoted admin loses access before the token expires.
func AdminRequired(checker AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
		}

		ok, err := checker.IsAdmin(c.UserContext(), who.UserID)
		if err != nil && !errors.Is(err, services.ErrUserNotFound) {
			slog.Error("admin check failed", "user_id", who.UserID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Admin access required"})
		}
		return c.Next()
	}
}
