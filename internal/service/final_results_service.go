package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/observability"
	"github.com/noah-isme/hire-go-api/internal/repository"
	"github.com/noah-isme/hire-go-api/internal/scoring"
)

// DefaultFinalResultsLimit caps the final results view.
const DefaultFinalResultsLimit = 3

// FinalResultsService aggregates manually scored applications into the final shortlist.
type FinalResultsService interface {
	ResultsInvalidator
	FinalTop(ctx context.Context, jobID uint) ([]dto.RankedCandidate, error)
}

type finalResultsService struct {
	applications repository.ApplicationRepository
	engine       *scoring.Engine
	weights      ScoreWeights
	limit        int
	cache        *redis.Client
	ttl          time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewFinalResultsService constructs the final results service. A nil cache disables caching.
func NewFinalResultsService(applications repository.ApplicationRepository, engine *scoring.Engine, weights ScoreWeights, limit int, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) FinalResultsService {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if limit <= 0 {
		limit = DefaultFinalResultsLimit
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &finalResultsService{
		applications: applications,
		engine:       engine,
		weights:      weights.Normalized(),
		limit:        limit,
		cache:        cache,
		ttl:          ttl,
		logger:       logger.With().Str("component", "final_results_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/hire-go-api/internal/service/final_results"),
	}
}

func (s *finalResultsService) FinalTop(ctx context.Context, jobID uint) ([]dto.RankedCandidate, error) {
	start := time.Now()
	defer func() {
		observability.RankingDuration().WithLabelValues("final").Observe(time.Since(start).Seconds())
	}()

	ctx, span := s.tracer.Start(ctx, "ranking.final_top")
	defer span.End()
	span.SetAttributes(attribute.Int64("job.id", int64(jobID)))

	if cached, ok := s.fetchCache(ctx, jobID); ok {
		observability.FinalResultsCache().WithLabelValues("hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	applications, err := s.applications.List(ctx, repository.ApplicationFilter{JobID: &jobID, ScoredOnly: true})
	if err != nil {
		observability.FinalResultsCache().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list scored applications failed")
		return nil, err
	}

	scored := make([]models.Application, 0, len(applications))
	results := make(map[uint]scoring.Result, len(applications))
	for _, application := range applications {
		if !application.HasManualScore() {
			continue
		}
		scored = append(scored, application)
		results[application.ID] = storedResult(s.engine, application)
	}

	ranked := rankApplications(scored, results, s.weights, s.limit)
	s.writeCache(ctx, jobID, ranked)
	observability.FinalResultsCache().WithLabelValues("miss").Inc()
	span.SetStatus(codes.Ok, "aggregated")
	return ranked, nil
}

func (s *finalResultsService) Invalidate(ctx context.Context, jobID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, finalResultsCacheKey(jobID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("job_id", jobID).Msg("failed to invalidate final results cache")
	}
}

func (s *finalResultsService) fetchCache(ctx context.Context, jobID uint) ([]dto.RankedCandidate, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, finalResultsCacheKey(jobID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read final results cache")
		}
		return nil, false
	}

	var ranked []dto.RankedCandidate
	if err := json.Unmarshal([]byte(payload), &ranked); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode final results cache")
		return nil, false
	}
	return ranked, true
}

func (s *finalResultsService) writeCache(ctx context.Context, jobID uint, ranked []dto.RankedCandidate) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(ranked)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode final results cache")
		return
	}
	if err := s.cache.Set(ctx, finalResultsCacheKey(jobID), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store final results cache")
	}
}

// storedResult blends on the autoScore persisted at ranking time. The factors are recomputed for
// display only; the engine's score is used when nothing has been stored yet.
func storedResult(engine *scoring.Engine, application models.Application) scoring.Result {
	result := engine.Compute(scoring.Input{
		Application: application,
		Candidate:   application.User,
		Job:         application.Job,
	})
	if application.AutoScore != nil {
		result.AutoScore = *application.AutoScore
	}
	return result
}

func finalResultsCacheKey(jobID uint) string {
	return fmt.Sprintf("final-top3:v1:%d", jobID)
}
