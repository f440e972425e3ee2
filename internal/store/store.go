// Package store persists users and their saved courses.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateKey = errors.New("email already registered")
	ErrNotFound     = errors.New("record not found")
)

// Store is the credential store. A Store returned by WithTx is bound to
// that transaction; every method on it runs inside the transaction.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx runs fn in one transaction. It commits when fn returns nil and
// rolls back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var count int64
		if err := tx.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateKey
		}
		if err := tx.db.WithContext(ctx).Create(user).Error; err != nil {
			return translate(err, "failed to create user")
		}
		return nil
	})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "failed to find user by email")
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to find user")
	}
	return &user, nil
}

// UpdateUser saves every mutable column of user. Changing the email to one
// held by another account fails with ErrDuplicateKey.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var count int64
		if err := tx.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", user.Email, user.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateKey
		}

		result := tx.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"full_name":  user.FullName,
				"email":      user.Email,
				"password":   user.Password,
				"role":       user.Role,
				"avatar_url": user.AvatarURL,
			})
		if result.Error != nil {
			return translate(result.Error, "failed to update user")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteUser removes the user and every saved course they own.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.WithTx(ctx, func(tx *Store) error {
		if err := tx.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.SavedCourse{}).Error; err != nil {
			return fmt.Errorf("failed to delete saved courses: %w", err)
		}
		result := tx.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Store) CreateSavedCourse(ctx context.Context, course *models.SavedCourse) error {
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (s *Store) ListSavedCourses(ctx context.Context, userID uuid.UUID) ([]models.SavedCourse, error) {
	courses := []models.SavedCourse{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved courses: %w", err)
	}
	return courses, nil
}

// DeleteSavedCourse deletes the course only when userID owns it.
func (s *Store) DeleteSavedCourse(ctx context.Context, id, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedCourse{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete saved course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
