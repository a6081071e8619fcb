package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// AdminAssignmentHandler binds selected applications to a recruiter.
type AdminAssignmentHandler struct {
	service service.CandidateAssignmentService
	logger  zerolog.Logger
}

// NewAdminAssignmentHandler constructs the handler.
func NewAdminAssignmentHandler(service service.CandidateAssignmentService, logger zerolog.Logger) *AdminAssignmentHandler {
	return &AdminAssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_assignment_handler").Logger(),
	}
}

// Register attaches assignment routes.
func (h *AdminAssignmentHandler) Register(router fiber.Router) {
	router.Post("/assign-candidates", h.assign)
}

func (h *AdminAssignmentHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignCandidatesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	response, err := h.service.Assign(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return sendValidationError(c, err)
		case errors.Is(err, service.ErrEmptySelection):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error(), fiber.Map{"applicationIds": "required"})
		case errors.Is(err, service.ErrInvalidRecruiter):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error(), fiber.Map{"recruiterId": "invalid"})
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "one or more applications not found", nil)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to assign candidates")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign candidates")
		}
	}

	return utils.SendSuccess(c, "candidates assigned", response)
}
