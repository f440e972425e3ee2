package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedCourse is a user's copy of a generated course document.
type SavedCourse struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseTitle string         `gorm:"size:255;not null" json:"course_title"`
	CourseData  datatypes.JSON `gorm:"not null" json:"course_data"`
	SavedAt     time.Time      `gorm:"autoCreateTime" json:"saved_at"`
	User        User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *SavedCourse) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
