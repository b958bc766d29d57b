package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"filesmanager/internal/middleware"
	"filesmanager/internal/services"
)

type FileHandler struct {
	registry *services.FileRegistry
	access   *services.AccessController
	log      zerolog.Logger
}

func NewFileHandler(registry *services.FileRegistry, access *services.AccessController, log zerolog.Logger) *FileHandler {
	return &FileHandler{registry: registry, access: access, log: log}
}

type createFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// Create handles POST /files.
func (h *FileHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	var req createFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	file, err := h.registry.Create(c.UserContext(), services.CreateFileParams{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

// Show handles GET /files/:id.
func (h *FileHandler) Show(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	file, err := h.registry.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.access.AuthorizeFileRead(userID, file); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(file)
}

// Index handles GET /files with parentId and page query parameters.
func (h *FileHandler) Index(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	files, err := h.registry.List(c.UserContext(), userID, c.Query("parentId"), c.QueryInt("page", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(files)
}

// Publish handles PUT /files/:id/publish.
func (h *FileHandler) Publish(c *fiber.Ctx) error {
	return h.setVisibility(c, true)
}

// Unpublish handles PUT /files/:id/unpublish.
func (h *FileHandler) Unpublish(c *fiber.Ctx) error {
	return h.setVisibility(c, false)
}

func (h *FileHandler) setVisibility(c *fiber.Ctx, isPublic bool) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	id := c.Params("id")

	file, err := h.registry.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.access.AuthorizeFileWrite(userID, file); err != nil {
		return respondError(c, h.log, err)
	}

	updated, err := h.registry.SetVisibility(c.UserContext(), id, isPublic)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(updated)
}
