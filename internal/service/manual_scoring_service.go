package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/observability"
	"github.com/noah-isme/hire-go-api/internal/repository"
	"github.com/noah-isme/hire-go-api/pkg/events"
)

// ErrNotAssignedRecruiter indicates the caller is not the recruiter bound to the application.
var ErrNotAssignedRecruiter = errors.New("application is not assigned to this recruiter")

// ScoreEvent is published whenever a recruiter submits a manual score.
type ScoreEvent struct {
	ApplicationID uint      `json:"applicationId"`
	JobID         uint      `json:"jobId"`
	RecruiterID   uint      `json:"recruiterId"`
	ManualScore   int       `json:"manualScore"`
	ScoredAt      time.Time `json:"scoredAt"`
}

// ManualScoringService records recruiter scores for assigned applications.
type ManualScoringService interface {
	Score(ctx context.Context, applicationID uint, payload dto.ManualScoreRequest, actor ActivityActor) (dto.ApplicationResponse, error)
}

type manualScoringService struct {
	applications repository.ApplicationRepository
	validator    *validator.Validate
	activity     ActivityRecorder
	events       EventPublisher
	results      ResultsInvalidator
	policy       *bluemonday.Policy
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewManualScoringService constructs the manual scoring service.
func NewManualScoringService(applications repository.ApplicationRepository, validator *validator.Validate, activity ActivityRecorder, publisher EventPublisher, results ResultsInvalidator, logger zerolog.Logger) ManualScoringService {
	return &manualScoringService{
		applications: applications,
		validator:    validator,
		activity:     activity,
		events:       publisher,
		results:      results,
		policy:       bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "manual_scoring_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/hire-go-api/internal/service/manual_scoring"),
		now:          time.Now,
	}
}

// Score overwrites any previous manual score. Only the assigned recruiter may score.
func (s *manualScoringService) Score(ctx context.Context, applicationID uint, payload dto.ManualScoreRequest, actor ActivityActor) (dto.ApplicationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.manual")
	defer span.End()
	span.SetAttributes(attribute.Int64("application.id", int64(applicationID)), attribute.Int64("recruiter.id", int64(actor.ID)))

	if err := s.validator.Struct(payload); err != nil {
		observability.ManualScores().WithLabelValues("invalid").Inc()
		span.SetStatus(codes.Error, "validation failed")
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.ManualScores().WithLabelValues("not_found").Inc()
			span.SetStatus(codes.Error, "application not found")
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		span.RecordError(err)
		return dto.ApplicationResponse{}, err
	}

	if !application.IsAssignedTo(actor.ID) {
		observability.ManualScores().WithLabelValues("forbidden").Inc()
		span.SetStatus(codes.Error, "not assigned")
		s.logger.Warn().Uint("application_id", applicationID).Uint("actor_id", actor.ID).Msg("score rejected for non-assigned recruiter")
		return dto.ApplicationResponse{}, ErrNotAssignedRecruiter
	}

	score := *payload.Score
	notes := sanitizeText(s.policy, payload.Notes)
	scoredAt := s.now().UTC()

	if err := s.applications.UpdateManualScore(ctx, application.ID, score, notes, scoredAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist score failed")
		return dto.ApplicationResponse{}, err
	}

	previous := application.ManualScore
	application.ManualScore = &score
	application.ScoreNotes = notes
	application.ScoredAt = &scoredAt

	observability.ManualScores().WithLabelValues("accepted").Inc()
	invalidateJobs(ctx, s.results, application.JobID)

	metadata := map[string]interface{}{
		"job_id":       application.JobID,
		"manual_score": score,
	}
	if previous != nil {
		metadata["previous_score"] = *previous
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     ActionApplicationScored,
		EntityType: "application",
		EntityID:   &application.ID,
		Metadata:   metadata,
	})

	publishEvent(ctx, s.events, s.logger, events.ApplicationScored, ScoreEvent{
		ApplicationID: application.ID,
		JobID:         application.JobID,
		RecruiterID:   actor.ID,
		ManualScore:   score,
		ScoredAt:      scoredAt,
	})

	span.SetStatus(codes.Ok, "scored")
	return dto.NewApplicationResponse(application), nil
}
