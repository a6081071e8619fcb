package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// JobHandler exposes job listings and their administration.
type JobHandler struct {
	service service.JobService
	logger  zerolog.Logger
}

// NewJobHandler constructs the handler.
func NewJobHandler(service service.JobService, logger zerolog.Logger) *JobHandler {
	return &JobHandler{
		service: service,
		logger:  logger.With().Str("component", "job_handler").Logger(),
	}
}

// RegisterPublic attaches read routes available to any authenticated user.
func (h *JobHandler) RegisterPublic(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches job management routes.
func (h *JobHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.deactivate)
}

func (h *JobHandler) list(c *fiber.Ctx) error {
	includeInactive := false
	if models.IsReviewerRole(userRoleFromContext(c)) {
		includeInactive = strings.EqualFold(c.Query("includeInactive"), "true")
	}

	jobs, err := h.service.List(requestContext(c), c.Query("search"), includeInactive)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list jobs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list jobs")
	}

	return utils.SendSuccess(c, "jobs", jobs)
}

func (h *JobHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return h.jobError(c, err, "failed to load job")
	}
	if !job.IsActive && !models.IsReviewerRole(userRoleFromContext(c)) {
		return utils.SendError(c, fiber.StatusNotFound, "job not found")
	}

	return utils.SendSuccess(c, "job", job)
}

func (h *JobHandler) create(c *fiber.Ctx) error {
	var payload dto.JobCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	job, err := h.service.Create(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		return h.jobError(c, err, "failed to create job")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job created", job)
}

func (h *JobHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	var payload dto.JobUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", nil)
	}

	job, err := h.service.Update(requestContext(c), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.jobError(c, err, "failed to update job")
	}

	return utils.SendSuccess(c, "job updated", job)
}

func (h *JobHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	if err := h.service.Deactivate(requestContext(c), id, activityActorFromContext(c)); err != nil {
		return h.jobError(c, err, "failed to deactivate job")
	}

	return utils.SendSuccess(c, "job deactivated", fiber.Map{"id": id, "isActive": false})
}

func (h *JobHandler) jobError(c *fiber.Ctx, err error, message string) error {
	switch {
	case isValidationError(err):
		return sendValidationError(c, err)
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
