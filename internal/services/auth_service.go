package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/config"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("google account email is not verified")
	ErrGoogleLogin        = errors.New("google sign-in failed")
	ErrReservedEmail      = errors.New("this email is reserved for administrators; sign in with Google")
)

type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	google *auth.GoogleVerifier
	cfg    *config.Config
}

func NewAuthService(st *store.Store, tokens *auth.TokenService, google *auth.GoogleVerifier, cfg *config.Config) *AuthService {
	return &AuthService{store: st, tokens: tokens, google: google, cfg: cfg}
}

// Signup creates an email account with the user role. Addresses listed in
// ADMIN_EMAILS are refused: ownership of those is only proven by a verified
// Google sign-in.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if s.cfg.IsAdminEmail(email) {
		return nil, ErrReservedEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Password:     hash,
		Role:         models.RoleUser,
		AuthProvider: models.ProviderEmail,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// GoogleLogin verifies a Google ID token and signs the user in, creating the
// account on first use. A verified address listed in ADMIN_EMAILS makes a
// Google account an admin.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleNotConfigured) {
			return nil, err
		}
		slog.Warn("google token rejected", "error", err)
		return nil, ErrGoogleLogin
	}
	if !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	var user *models.User
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.FindUserByEmail(ctx, claims.Email)
		if err == nil {
			user = existing
			if existing.AuthProvider != models.ProviderGoogle || existing.IsAdmin() || !s.cfg.IsAdminEmail(claims.Email) {
				return nil
			}
			existing.Role = models.RoleAdmin
			return tx.UpdateUser(ctx, existing)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := auth.RandomPasswordHash()
		if err != nil {
			return err
		}
		user = &models.User{
			FullName:     googleDisplayName(claims),
			Email:        claims.Email,
			Password:     hash,
			Role:         s.googleRole(claims.Email),
			AuthProvider: models.ProviderGoogle,
		}
		if claims.Picture != "" {
			picture := claims.Picture
			user.AvatarURL = &picture
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("google sign-in: %w", err)
	}

	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		FullName:  user.FullName,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) googleRole(email string) string {
	if s.cfg.IsAdminEmail(email) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func googleDisplayName(c *auth.GoogleClaims) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(c.Email, '@'); at > 0 {
		return c.Email[:at]
	}
	return c.Email
}
