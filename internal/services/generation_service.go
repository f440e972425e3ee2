package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/cache"
)

const (
	kindCourse         = "course"
	kindDetailedCourse = "detailed-course"
	kindCareerPath     = "career-path"
)

// GenerationService fronts the AI gateway with an optional Redis cache.
// Chat replies are never cached.
type GenerationService struct {
	gateway *ai.Gateway
	cache   *cache.Cache
	ttl     time.Duration
}

func NewGenerationService(gateway *ai.Gateway, c *cache.Cache, ttl time.Duration) *GenerationService {
	return &GenerationService{gateway: gateway, cache: c, ttl: ttl}
}

func (s *GenerationService) Course(ctx context.Context, query string) (*ai.Course, error) {
	return cached(ctx, s, kindCourse, query, s.gateway.GenerateCourse)
}

func (s *GenerationService) DetailedCourse(ctx context.Context, query string) (*ai.Course, error) {
	return cached(ctx, s, kindDetailedCourse, query, s.gateway.GenerateDetailedCourse)
}

func (s *GenerationService) CareerPath(ctx context.Context, query string) (*ai.CareerPath, error) {
	return cached(ctx, s, kindCareerPath, query, s.gateway.GenerateCareerPath)
}

func (s *GenerationService) Chat(ctx context.Context, query string, history []ai.Message) (string, error) {
	return s.gateway.GenerateChatReply(ctx, query, history)
}

func cached[T any](ctx context.Context, s *GenerationService, kind, query string, generate func(context.Context, string) (*T, error)) (*T, error) {
	key := cacheKey(kind, query)

	var hit T
	err := s.cache.Get(ctx, key, &hit)
	switch {
	case err == nil:
		slog.Debug("generation cache hit", "kind", kind)
		return &hit, nil
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheNotAvailable):
	default:
		slog.Warn("generation cache read failed", "kind", kind, "error", err)
	}

	doc, err := generate(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, doc, s.ttl); err != nil {
		slog.Warn("generation cache write failed", "kind", kind, "error", err)
	}
	return doc, nil
}

func cacheKey(kind, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return kind + ":" + hex.EncodeToString(sum[:])
}
