// Package auth issues and verifies bearer tokens, hashes passwords, and
// verifies Google ID tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of a session token.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token and its expiry.
func (s *TokenService) Issue(userID uuid.UUID, email, role string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its claims. Expired, tampered, or
// non-HS256 tokens fail with ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.Keyfunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := CheckClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Keyfunc returns the signing key for HS256 tokens and rejects every other
// algorithm.
func (s *TokenService) Keyfunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
	}
	return s.secret, nil
}

// CheckClaims holds the claim rules a parsed session token must meet on top
// of its signature: an expiry and a user id.
func CheckClaims(claims *Claims) error {
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	if claims.UserID == uuid.Nil {
		return fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return nil
}
