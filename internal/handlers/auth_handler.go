package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"filesmanager/internal/middleware"
	"filesmanager/internal/services"
)

type AuthHandler struct {
	access *services.AccessController
	log    zerolog.Logger
}

func NewAuthHandler(access *services.AccessController, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{access: access, log: log}
}

// Connect exchanges Basic credentials for a session token. Any defect
// in the header collapses to the same 401 as a credential mismatch.
func (h *AuthHandler) Connect(c *fiber.Ctx) error {
	const prefix = "Basic "

	raw := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(raw, prefix) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, prefix))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	token, err := h.access.Login(c.UserContext(), email, password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// Disconnect revokes the session behind the X-Token header.
func (h *AuthHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.access.Logout(c.UserContext(), c.Get(middleware.HeaderToken)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateUser registers a new account.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.access.CreateUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID.Hex(),
		"email": user.Email,
	})
}

// Me returns the account behind the authenticated session.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	user, err := h.access.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"id":    user.ID.Hex(),
		"email": user.Email,
	})
}
