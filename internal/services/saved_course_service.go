package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrInvalidCourseData = errors.New("invalid course data")
	ErrCourseNotFound    = errors.New("course not found or you do not have permission to delete it")
)

type SavedCourseService struct {
	store *store.Store
}

func NewSavedCourseService(st *store.Store) *SavedCourseService {
	return &SavedCourseService{store: st}
}

// Save validates courseData against the course schema and stores it for
// userID. courseData may be a JSON object or a JSON string holding one.
func (s *SavedCourseService) Save(ctx context.Context, userID uuid.UUID, courseData json.RawMessage) (*models.SavedCourse, error) {
	doc := bytes.TrimSpace(courseData)
	if len(doc) > 0 && doc[0] == '"' {
		var inner string
		if err := json.Unmarshal(doc, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCourseData, err)
		}
		doc = bytes.TrimSpace([]byte(inner))
	}
	if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
		return nil, fmt.Errorf("%w: courseData is required", ErrInvalidCourseData)
	}

	course, err := ai.ParseCourse(doc)
	if err != nil {
		var mErr *ai.MalformedResponseError
		if errors.As(err, &mErr) && mErr.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCourseData, mErr.Err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCourseData, err)
	}

	canonical, err := json.Marshal(course)
	if err != nil {
		return nil, fmt.Errorf("failed to encode course: %w", err)
	}

	saved := &models.SavedCourse{
		UserID:      userID,
		CourseTitle: course.Title,
		CourseData:  datatypes.JSON(canonical),
	}
	if err := s.store.CreateSavedCourse(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedCourseService) List(ctx context.Context, userID uuid.UUID) ([]models.SavedCourse, error) {
	return s.store.ListSavedCourses(ctx, userID)
}

func (s *SavedCourseService) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	if err := s.store.DeleteSavedCourse(ctx, courseID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}
