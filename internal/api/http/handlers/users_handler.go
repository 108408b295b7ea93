package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/may-baker/helpdesk-service/internal/api/dto"
	"github.com/may-baker/helpdesk-service/internal/service"
)

// UsersHandler exposes the account roster.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler returns a new handler instance.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	roster, err := h.directory.Roster(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(roster))
	for _, account := range roster {
		items = append(items, dto.FromUser(account))
	}
	return c.JSON(items)
}
