package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/internal/utils"
)

// AdminRankingHandler serves the ranked candidate views of a job.
type AdminRankingHandler struct {
	ranking service.RankingService
	final   service.FinalResultsService
	logger  zerolog.Logger
}

// NewAdminRankingHandler constructs the handler.
func NewAdminRankingHandler(ranking service.RankingService, final service.FinalResultsService, logger zerolog.Logger) *AdminRankingHandler {
	return &AdminRankingHandler{
		ranking: ranking,
		final:   final,
		logger:  logger.With().Str("component", "admin_ranking_handler").Logger(),
	}
}

// Register attaches ranking routes.
func (h *AdminRankingHandler) Register(router fiber.Router) {
	router.Get("/top-candidates", h.topCandidates)
	router.Get("/final-top3", h.finalTop)
}

func (h *AdminRankingHandler) topCandidates(c *fiber.Ctx) error {
	jobID, err := parseJobIDQuery(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	ranked, err := h.ranking.TopCandidates(requestContext(c), jobID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("job_id", jobID).Msg("failed to rank candidates")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank candidates")
	}

	return utils.OK(c, ranked, "top candidates", fiber.Map{"jobId": jobID, "count": len(ranked)})
}

func (h *AdminRankingHandler) finalTop(c *fiber.Ctx) error {
	jobID, err := parseJobIDQuery(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	ranked, err := h.final.FinalTop(requestContext(c), jobID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("job_id", jobID).Msg("failed to compute final results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute final results")
	}

	return utils.OK(c, ranked, "final results", fiber.Map{"jobId": jobID, "count": len(ranked)})
}
