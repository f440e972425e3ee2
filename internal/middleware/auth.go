package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTProtected requires a valid bearer token issued by tokens. A request
// without a bearer token is 401; a token that fails verification is 403.
func JWTProtected(tokens *auth.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    tokens.Keyfunc,
		Claims:     &auth.Claims{},
		ContextKey: identity.LocalsKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(identity.LocalsKey).(*jwt.Token)
			if !ok {
				return invalidToken(c)
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || auth.CheckClaims(claims) != nil {
				return invalidToken(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if bearerToken(c.Get(fiber.HeaderAuthorization)) == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: "Authorization token required",
				})
			}
			return invalidToken(c)
		},
	})
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: "Invalid or expired token",
	})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return ""
	}
	return strings.TrimSpace(header[len(scheme):])
}
