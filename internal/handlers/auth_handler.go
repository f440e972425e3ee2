package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if msg, ok := bind(c, &req); !ok {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	user, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return errorJSON(c, fiber.StatusConflict, "Email already exists")
		case errors.Is(err, services.ErrReservedEmail):
			return errorJSON(c, fiber.StatusForbidden, "This email must sign in with Google")
		default:
			return internalError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SignupResponse{
		Message: "User created successfully",
		UserID:  user.ID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if msg, ok := bind(c, &req); !ok {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid password")
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(resp)
}

func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if msg, ok := bind(c, &req); !ok {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.GoogleLogin(c.UserContext(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrGoogleNotConfigured):
			return errorJSON(c, fiber.StatusNotImplemented, "Google sign-in is not enabled")
		case errors.Is(err, services.ErrGoogleLogin), errors.Is(err, services.ErrEmailNotVerified):
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(resp)
}
