package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// ApplicationHandler handles candidate submissions and their review pipeline.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// RegisterCandidate attaches routes used by candidates.
func (h *ApplicationHandler) RegisterCandidate(router fiber.Router) {
	router.Post("/", h.apply)
	router.Get("/me", h.listMine)
}

// RegisterAdmin attaches application review routes.
func (h *ApplicationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/", h.list)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	candidateID := userIDFromContext(c)
	if candidateID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	application, err := h.service.Apply(requestContext(c), candidateID, payload)
	if err != nil {
		return h.applicationError(c, err, "failed to submit application")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) listMine(c *fiber.Ctx) error {
	candidateID := userIDFromContext(c)
	if candidateID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	items, err := h.service.ListMine(requestContext(c), candidateID)
	if err != nil {
		return h.applicationError(c, err, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications", items)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	jobID, err := parseQueryInt(c, "jobId")
	if err != nil || jobID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	items, err := h.service.List(requestContext(c), dto.ApplicationListRequest{
		JobID:  uint(jobID),
		Status: strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		return h.applicationError(c, err, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications", items)
}

func (h *ApplicationHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var payload dto.ApplicationStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	application, err := h.service.UpdateStatus(requestContext(c), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.applicationError(c, err, "failed to update application status")
	}

	return utils.SendSuccess(c, "application status updated", application)
}

func (h *ApplicationHandler) applicationError(c *fiber.Ctx, err error, message string) error {
	switch {
	case isValidationError(err):
		return sendValidationError(c, err)
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrDuplicateApplication):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrJobClosed),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAvailabilityDate):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
