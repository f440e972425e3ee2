package handlers

import (
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
)

// GenerationHandler serves the public AI endpoints. Query validation
// happens in the gateway so every entry point applies the same rules.
type GenerationHandler struct {
	generation *services.GenerationService
}

func NewGenerationHandler(generation *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

func (h *GenerationHandler) Course(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	course, err := h.generation.Course(c.UserContext(), req.Query)
	if err != nil {
		return respondAIError(c, err)
	}
	return c.JSON(course)
}

func (h *GenerationHandler) DetailedCourse(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	course, err := h.generation.DetailedCourse(c.UserContext(), req.Query)
	if err != nil {
		return respondAIError(c, err)
	}
	return c.JSON(course)
}

func (h *GenerationHandler) CareerPath(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	path, err := h.generation.CareerPath(c.UserContext(), req.Query)
	if err != nil {
		return respondAIError(c, err)
	}
	return c.JSON(path)
}

func (h *GenerationHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	reply, err := h.generation.Chat(c.UserContext(), req.Query, req.History)
	if err != nil {
		return respondAIError(c, err)
	}
	return c.JSON(dto.ChatResponse{Reply: reply})
}
