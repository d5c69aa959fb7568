package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fbay/internal/middleware"
	"fbay/internal/services"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	service *services.UserService
	media   *MediaStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, media *MediaStore) *UserHandler {
	return &UserHandler{
		service: service,
		media:   media,
	}
}

// RegisterRoutes registers the profile and user routes. The profile can be
// read anonymously; everything else needs a token.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/profile", guards.Optional, h.HandleGetProfile)
	router.Put("/profile", guards.Required, h.HandleUpdateProfile)

	userRoutes := router.Group("/users", guards.Required)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
}

// HandleGetProfile returns the caller's own user, or null when anonymous.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return respondOK(c, fiber.StatusOK, nil)
	}
	user, err := h.service.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "Could not retrieve profile", err)
	}
	return respondOK(c, fiber.StatusOK, newUserView(user))
}

// HandleUpdateProfile edits the caller's own user.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	return h.update(c, middleware.UserID(c))
}

// HandleGetUser retrieves any user by ID.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve user", err)
	}
	return respondOK(c, fiber.StatusOK, newUserView(user))
}

// HandleUpdateUser edits a user; only the user themselves may do so.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	return h.update(c, c.Params("id"))
}

func (h *UserHandler) update(c *fiber.Ctx, targetID string) error {
	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	avatar, err := h.media.Save(c, "avatar", "avatars")
	if err != nil {
		return respondError(c, "Failed to save changes to user", err)
	}
	input.AvatarPath = avatar

	user, err := h.service.UpdateUser(c.UserContext(), middleware.UserID(c), targetID, input)
	if err != nil {
		h.media.Discard(avatar)
		return respondError(c, "Failed to save changes to user", err)
	}
	return respondOK(c, fiber.StatusOK, newUserView(user))
}
