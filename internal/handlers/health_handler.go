package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/cache"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewHealthHandler(db *gorm.DB, c *cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	cacheStatus := "disabled"
	if h.cache.Available() {
		cacheStatus = "ok"
		if err := h.cache.HealthCheck(ctx); err != nil {
			cacheStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
