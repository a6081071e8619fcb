package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// RecruiterHandler serves the manual scoring interface.
type RecruiterHandler struct {
	scoring     service.ManualScoringService
	assignments service.CandidateAssignmentService
	logger      zerolog.Logger
}

// NewRecruiterHandler constructs the handler.
func NewRecruiterHandler(scoring service.ManualScoringService, assignments service.CandidateAssignmentService, logger zerolog.Logger) *RecruiterHandler {
	return &RecruiterHandler{
		scoring:     scoring,
		assignments: assignments,
		logger:      logger.With().Str("component", "recruiter_handler").Logger(),
	}
}

// Register attaches recruiter routes.
func (h *RecruiterHandler) Register(router fiber.Router) {
	router.Put("/score/:applicationId", h.score)
	router.Get("/assignments", h.listAssignments)
}

func (h *RecruiterHandler) score(c *fiber.Ctx) error {
	applicationID, err := parseUintParam(c, "applicationId")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid application id", nil)
	}

	var payload dto.ManualScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	response, err := h.scoring.Score(requestContext(c), applicationID, payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return sendValidationError(c, err)
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "application not found", nil)
		case errors.Is(err, service.ErrNotAssignedRecruiter):
			return utils.Fail(c, fiber.StatusForbidden, err.Error(), nil)
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("application_id", applicationID).Msg("failed to record manual score")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record manual score")
		}
	}

	return utils.SendSuccess(c, "score recorded", response)
}

func (h *RecruiterHandler) listAssignments(c *fiber.Ctx) error {
	recruiterID := userIDFromContext(c)
	if recruiterID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	items, err := h.assignments.ListAssigned(requestContext(c), recruiterID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assigned applications", items)
}
