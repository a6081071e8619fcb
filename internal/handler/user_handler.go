package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// UserHandler serves profile endpoints and the recruiter picker.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// RegisterSelf attaches routes acting on the caller's own profile.
func (h *UserHandler) RegisterSelf(router fiber.Router) {
	router.Get("/", h.me)
	router.Put("/profile", h.updateProfile)
}

// RegisterAdmin attaches the recruiter listing.
func (h *UserHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/recruiters", h.listReviewers)
}

func (h *UserHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Me(requestContext(c), userID)
	if err != nil {
		return h.userError(c, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile", profile)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	profile, err := h.service.UpdateProfile(requestContext(c), userID, payload)
	if err != nil {
		return h.userError(c, err, "failed to update profile")
	}
	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *UserHandler) listReviewers(c *fiber.Ctx) error {
	users, err := h.service.ListReviewers(requestContext(c))
	if err != nil {
		return h.userError(c, err, "failed to list recruiters")
	}
	return utils.SendSuccess(c, "recruiters", users)
}

func (h *UserHandler) userError(c *fiber.Ctx, err error, message string) error {
	switch {
	case isValidationError(err):
		return sendValidationError(c, err)
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
