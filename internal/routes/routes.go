package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Generation   *handlers.GenerationHandler
	SavedCourses *handlers.SavedCourseHandler
	Admin        *handlers.AdminHandler
	Health       *handlers.HealthHandler
}

// Limits are requests per minute per client IP.
type Limits struct {
	API  int
	Auth int
	AI   int
}

var DefaultLimits = Limits{API: 60, Auth: 10, AI: 10}

func perMinute(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please slow down",
			})
		},
	})
}

func Setup(app *fiber.App, tokens *auth.TokenService, admins middleware.AdminChecker, h Handlers, limits Limits) {
	api := app.Group("/api")
	api.Use(perMinute(limits.API))

	api.Get("/health", h.Health.Check)

	// Auth: stricter limit
	authLimit := perMinute(limits.Auth)
	api.Post("/signup", authLimit, h.Auth.Signup)
	api.Post("/login", authLimit, h.Auth.Login)
	api.Post("/auth/google", authLimit, h.Auth.GoogleLogin)

	// AI generation is public but expensive
	aiLimit := perMinute(limits.AI)
	api.Post("/generate-course-with-ai", aiLimit, h.Generation.Course)
	api.Post("/generate-detailed-course", aiLimit, h.Generation.DetailedCourse)
	api.Post("/generate-career-path", aiLimit, h.Generation.CareerPath)
	api.Post("/chat", aiLimit, h.Generation.Chat)

	// Protected routes: JWT is attached per route so public routes stay untouched
	protected := middleware.JWTProtected(tokens)
	api.Get("/profile", protected, h.Profile.Get)
	api.Put("/profile", protected, h.Profile.Update)
	api.Delete("/profile", protected, h.Profile.Delete)

	api.Get("/saved-courses", protected, h.SavedCourses.List)
	api.Post("/saved-courses", protected, h.SavedCourses.Save)
	api.Delete("/saved-courses/:id", protected, h.SavedCourses.Delete)

	adminOnly := middleware.AdminRequired(admins)
	api.Get("/users", protected, adminOnly, h.Admin.ListUsers)
	api.Delete("/users/:id", protected, adminOnly, h.Admin.DeleteUser)
	api.Put("/users/:id/role", protected, adminOnly, h.Admin.SetRole)
}
