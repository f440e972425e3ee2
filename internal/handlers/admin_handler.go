package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves /api/users. Routes are mounted behind AdminRequired.
type AdminHandler struct {
	userService *services.UserService
}

func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.NewUserList(users))
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actorID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user id")
	}

	if err := h.userService.DeleteUser(c.UserContext(), actorID, targetID); err != nil {
		return adminError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	actorID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.SetRoleRequest
	if msg, ok := bind(c, &req); !ok {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	user, err := h.userService.SetRole(c.UserContext(), actorID, targetID, req.Role)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func adminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSelfAction):
		return errorJSON(c, fiber.StatusForbidden, "You cannot perform this action on your own account")
	case errors.Is(err, services.ErrInvalidRole):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	default:
		return internalError(c, err)
	}
}
