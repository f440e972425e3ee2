package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	userService *services.UserService
}

func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.userService.Profile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if msg, ok := bind(c, &req); !ok {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrEmailTaken):
			return errorJSON(c, fiber.StatusConflict, "Email already in use")
		case errors.Is(err, services.ErrReservedEmail):
			return errorJSON(c, fiber.StatusForbidden, "This email cannot be used for this account")
		default:
			return internalError(c, err)
		}
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete removes the caller's own account and everything they saved.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.DeleteAccountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := h.userService.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordRequired):
			return errorJSON(c, fiber.StatusBadRequest, "Password is required")
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid password")
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		default:
			return internalError(c, err)
		}
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted successfully"})
}
