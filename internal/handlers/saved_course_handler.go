package handlers

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SavedCourseHandler struct {
	courses *services.SavedCourseService
}

func NewSavedCourseHandler(courses *services.SavedCourseService) *SavedCourseHandler {
	return &SavedCourseHandler{courses: courses}
}

func (h *SavedCourseHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	courses, err := h.courses.List(c.UserContext(), userID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.NewSavedCourseList(courses))
}

func (h *SavedCourseHandler) Save(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SaveCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	saved, err := h.courses.Save(c.UserContext(), userID, req.CourseData)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCourseData) {
			return errorJSON(c, fiber.StatusBadRequest, capitalize(err.Error()))
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSavedCourseResponse(saved))
}

func (h *SavedCourseHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	courseID, ok := pathID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid course id")
	}

	if err := h.courses.Delete(c.UserContext(), userID, courseID); err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Course not found or you do not have permission to delete it")
		}
		return internalError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Course deleted successfully"})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
