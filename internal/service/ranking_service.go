package service

import (
	"context"
	"sort"
	"time"

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

// DefaultRankingLimit caps the top-candidates view.
const DefaultRankingLimit = 10

// RankingService produces the shortlist of best candidates for a job.
type RankingService interface {
	TopCandidates(ctx context.Context, jobID uint) ([]dto.RankedCandidate, error)
}

type rankingService struct {
	applications repository.ApplicationRepository
	engine       *scoring.Engine
	weights      ScoreWeights
	limit        int
	results      ResultsInvalidator
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewRankingService constructs the ranking service. A nil engine scores against the wall clock.
func NewRankingService(applications repository.ApplicationRepository, engine *scoring.Engine, weights ScoreWeights, limit int, results ResultsInvalidator, logger zerolog.Logger) RankingService {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	return &rankingService{
		applications: applications,
		engine:       engine,
		weights:      weights.Normalized(),
		limit:        limit,
		results:      results,
		logger:       logger.With().Str("component", "ranking_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/hire-go-api/internal/service/ranking"),
	}
}

// TopCandidates recomputes the automatic score of every application to the job, persists the
// scores that moved and returns the best entries by total score.
func (s *rankingService) TopCandidates(ctx context.Context, jobID uint) ([]dto.RankedCandidate, error) {
	start := time.Now()
	defer func() {
		observability.RankingDuration().WithLabelValues("top").Observe(time.Since(start).Seconds())
	}()

	ctx, span := s.tracer.Start(ctx, "ranking.top_candidates")
	defer span.End()
	span.SetAttributes(attribute.Int64("job.id", int64(jobID)))

	applications, err := s.applications.List(ctx, repository.ApplicationFilter{JobID: &jobID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list applications failed")
		return nil, err
	}

	results := make(map[uint]scoring.Result, len(applications))
	changed := make(map[uint]int)
	for _, application := range applications {
		result := s.engine.Compute(scoring.Input{
			Application: application,
			Candidate:   application.User,
			Job:         application.Job,
		})
		results[application.ID] = result
		if application.AutoScore == nil || *application.AutoScore != result.AutoScore {
			changed[application.ID] = result.AutoScore
		}
	}

	if len(changed) > 0 {
		if err := s.applications.UpdateAutoScores(ctx, changed); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist auto scores failed")
			return nil, err
		}
		invalidateJobs(ctx, s.results, jobID)
		s.logger.Debug().Uint("job_id", jobID).Int("changed", len(changed)).Msg("auto scores refreshed")
	}

	ranked := rankApplications(applications, results, s.weights, s.limit)
	span.SetAttributes(attribute.Int("ranking.candidates", len(applications)), attribute.Int("ranking.returned", len(ranked)))
	span.SetStatus(codes.Ok, "ranked")
	return ranked, nil
}

// rankApplications orders applications by total score, then by submission time, then by id, and
// keeps at most limit entries.
func rankApplications(applications []models.Application, results map[uint]scoring.Result, weights ScoreWeights, limit int) []dto.RankedCandidate {
	ranked := make([]dto.RankedCandidate, 0, len(applications))
	for _, application := range applications {
		result := results[application.ID]
		ranked = append(ranked, dto.RankedCandidate{
			ApplicationID:     application.ID,
			Candidate:         dto.NewCandidateSummary(application.User),
			Job:               dto.NewJobSummary(application.Job),
			Status:            application.Status,
			AutoScore:         result.AutoScore,
			ManualScore:       application.ManualScore,
			TotalScore:        weights.Blend(result.AutoScore, application.ManualScore),
			Factors:           result.Factors,
			AssignedRecruiter: application.AssignedRecruiterID,
			AppliedAt:         application.CreatedAt,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if !a.AppliedAt.Equal(b.AppliedAt) {
			return a.AppliedAt.Before(b.AppliedAt)
		}
		return a.ApplicationID < b.ApplicationID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
