package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/identity"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/validation"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validation.New()

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

func internalError(c *fiber.Ctx, err error) error {
	slog.Error("request failed", requestAttrs(c, "error", err)...)
	captureError(c, err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// bind parses the JSON body into dst and runs its validate tags. The
// returned message is safe to send to the client.
func bind(c *fiber.Ctx, dst interface{}) (string, bool) {
	if err := c.BodyParser(dst); err != nil {
		return "Invalid request body", false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return verrs.Error(), false
		}
		return "Invalid request body", false
	}
	return "", true
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// respondAIError maps gateway failures to a status and a message the client
// can show. Upstream details stay in the logs.
func respondAIError(c *fiber.Ctx, err error) error {
	var (
		vErr *ai.ValidationError
		uErr *ai.UpstreamHTTPError
		mErr *ai.MalformedResponseError
		tErr *ai.TransportError
	)
	switch {
	case errors.As(err, &vErr):
		return errorJSON(c, fiber.StatusBadRequest, vErr.Message)
	case errors.As(err, &uErr):
		slog.Error("AI provider returned an error",
			requestAttrs(c, "provider", uErr.Provider, "status", uErr.StatusCode, "body", uErr.Body)...)
		captureError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "The AI service is unavailable right now. Please try again later.")
	case errors.As(err, &mErr):
		slog.Error("AI response rejected", requestAttrs(c, "reason", mErr.Reason, "error", err)...)
		captureError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "The AI returned an unexpected response. Please try again.")
	case errors.As(err, &tErr):
		slog.Error("AI request failed", requestAttrs(c, "provider", tErr.Provider, "error", err)...)
		captureError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "The AI service did not respond. Please try again.")
	default:
		return internalError(c, err)
	}
}

// requestAttrs prepends request metadata to args.
func requestAttrs(c *fiber.Ctx, args ...any) []any {
	attrs := []any{"method", c.Method(), "path", c.Path()}
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	if id, err := identity.GetUserID(c); err == nil {
		attrs = append(attrs, "user_id", id.String())
	}
	return append(attrs, args...)
}

func captureError(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// ErrorHandler is the Fiber fallback for errors that reach the app. Only
// client errors keep their message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error", requestAttrs(c, "error", err.Error())...)
		message = "Internal server error"
	}

	return errorJSON(c, code, message)
}
