package dto

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/google/uuid"
)

type GenerateRequest struct {
	Query string `json:"query"`
}

type ChatRequest struct {
	Query   string       `json:"query"`
	History []ai.Message `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// SaveCourseRequest accepts courseData either as a JSON object or as a
// string holding one, which is what the browser client sends.
type SaveCourseRequest struct {
	CourseData json.RawMessage `json:"courseData"`
}

// SavedCourseResponse carries course_data as a JSON string.
type SavedCourseResponse struct {
	ID          uuid.UUID `json:"id"`
	CourseTitle string    `json:"course_title"`
	CourseData  string    `json:"course_data"`
	SavedAt     time.Time `json:"saved_at"`
}

func NewSavedCourseResponse(c *models.SavedCourse) SavedCourseResponse {
	return SavedCourseResponse{
		ID:          c.ID,
		CourseTitle: c.CourseTitle,
		CourseData:  string(c.CourseData),
		SavedAt:     c.SavedAt,
	}
}

func NewSavedCourseList(courses []models.SavedCourse) []SavedCourseResponse {
	out := make([]SavedCourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewSavedCourseResponse(&courses[i]))
	}
	return out
}
