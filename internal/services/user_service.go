package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/config"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/store"
	"github.com/google/uuid"
)

var (
	ErrSelfAction       = errors.New("you cannot perform this action on your own account")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be user or admin")
)

type UserService struct {
	store *store.Store
	cfg   *config.Config
}

func NewUserService(st *store.Store, cfg *config.Config) *UserService {
	return &UserService{store: st, cfg: cfg}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.FindUserByID(ctx, userID)
		if err != nil {
			return err
		}
		email := strings.TrimSpace(req.Email)
		if email != u.Email && s.cfg.IsAdminEmail(email) {
			return ErrReservedEmail
		}
		u.FullName = strings.TrimSpace(req.FullName)
		u.Email = email
		if req.AvatarURL != nil {
			avatar := strings.TrimSpace(*req.AvatarURL)
			if avatar == "" {
				u.AvatarURL = nil
			} else {
				u.AvatarURL = &avatar
			}
		}
		if err := tx.UpdateUser(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, userErr(err)
	}
	return user, nil
}

// DeleteAccount removes the caller's own account. Email accounts must
// confirm with their password.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return userErr(err)
	}

	if user.AuthProvider == models.ProviderEmail {
		if password == "" {
			return ErrPasswordRequired
		}
		if !auth.CheckPassword(user.Password, password) {
			return ErrInvalidCredentials
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return userErr(err)
	}
	slog.Info("account deleted", "user_id", userID)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// IsAdmin reports whether the user currently holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return false, userErr(err)
	}
	return user.IsAdmin(), nil
}

// DeleteUser is the admin removal of another account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		return userErr(err)
	}
	slog.Info("user deleted by admin", "admin_id", actorID, "user_id", targetID)
	return nil
}

func (s *UserService) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error) {
	if actorID == targetID {
		return nil, ErrSelfAction
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	var user *models.User
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.FindUserByID(ctx, targetID)
		if err != nil {
			return err
		}
		u.Role = role
		if err := tx.UpdateUser(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, userErr(err)
	}
	slog.Info("user role changed", "admin_id", actorID, "user_id", targetID, "role", role)
	return user, nil
}

func userErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return ErrEmailTaken
	default:
		return err
	}
}
