package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"filesmanager/internal/repo"
)

// LivenessProbe reports whether a backing store answers a ping.
type LivenessProbe interface {
	Alive(ctx context.Context) bool
}

// AppHandler serves the status and stats endpoints.
type AppHandler struct {
	redis LivenessProbe
	db    LivenessProbe
	users repo.UserStore
	files repo.FileStore
	log   zerolog.Logger
}

func NewAppHandler(redis, db LivenessProbe, users repo.UserStore, files repo.FileStore, log zerolog.Logger) *AppHandler {
	return &AppHandler{redis: redis, db: db, users: users, files: files, log: log}
}

// Status handles GET /status.
func (h *AppHandler) Status(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(fiber.Map{
		"redis": h.redis.Alive(ctx),
		"db":    h.db.Alive(ctx),
	})
}

// Stats handles GET /stats.
func (h *AppHandler) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := h.users.Count(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	files, err := h.files.Count(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"users": users, "files": files})
}
