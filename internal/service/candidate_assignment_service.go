package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
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

var (
	// ErrEmptySelection indicates an assignment without any application.
	ErrEmptySelection = errors.New("at least one application must be selected")
	// ErrInvalidRecruiter indicates the target user cannot review applications.
	ErrInvalidRecruiter = errors.New("recruiter not found or not allowed to score")
)

// AssignmentEvent is published when applications are bound to a recruiter.
type AssignmentEvent struct {
	RecruiterID    uint      `json:"recruiterId"`
	ApplicationIDs []uint    `json:"applicationIds"`
	JobIDs         []uint    `json:"jobIds"`
	AssignedBy     uint      `json:"assignedBy"`
	AssignedAt     time.Time `json:"assignedAt"`
}

// CandidateAssignmentService hands shortlisted applications to recruiters for manual scoring.
type CandidateAssignmentService interface {
	Assign(ctx context.Context, payload dto.AssignCandidatesRequest, actor ActivityActor) (dto.AssignCandidatesResponse, error)
	ListAssigned(ctx context.Context, recruiterID uint) ([]dto.ApplicationResponse, error)
}

type candidateAssignmentService struct {
	applications repository.ApplicationRepository
	users        repository.UserRepository
	validator    *validator.Validate
	activity     ActivityRecorder
	events       EventPublisher
	results      ResultsInvalidator
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewCandidateAssignmentService constructs the assignment workflow.
func NewCandidateAssignmentService(applications repository.ApplicationRepository, users repository.UserRepository, validator *validator.Validate, activity ActivityRecorder, publisher EventPublisher, results ResultsInvalidator, logger zerolog.Logger) CandidateAssignmentService {
	return &candidateAssignmentService{
		applications: applications,
		users:        users,
		validator:    validator,
		activity:     activity,
		events:       publisher,
		results:      results,
		logger:       logger.With().Str("component", "candidate_assignment_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/hire-go-api/internal/service/assignment"),
		now:          time.Now,
	}
}

func (s *candidateAssignmentService) Assign(ctx context.Context, payload dto.AssignCandidatesRequest, actor ActivityActor) (dto.AssignCandidatesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.assign")
	defer span.End()

	if len(payload.ApplicationIDs) == 0 {
		span.SetStatus(codes.Error, "empty selection")
		return dto.AssignCandidatesResponse{}, ErrEmptySelection
	}
	if err := s.validator.Struct(payload); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.AssignCandidatesResponse{}, err
	}

	ids := uniqueIDs(payload.ApplicationIDs)
	span.SetAttributes(attribute.Int64("recruiter.id", int64(payload.RecruiterID)), attribute.Int("applications", len(ids)))

	recruiter, err := s.users.GetByID(ctx, payload.RecruiterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "unknown recruiter")
			return dto.AssignCandidatesResponse{}, ErrInvalidRecruiter
		}
		span.RecordError(err)
		return dto.AssignCandidatesResponse{}, err
	}
	if !recruiter.CanScore() {
		span.SetStatus(codes.Error, "user cannot score")
		return dto.AssignCandidatesResponse{}, ErrInvalidRecruiter
	}

	applications, err := s.applications.FindByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return dto.AssignCandidatesResponse{}, err
	}
	if len(applications) != len(ids) {
		span.SetStatus(codes.Error, "unknown application")
		return dto.AssignCandidatesResponse{}, fmt.Errorf("assign %d applications: %w", len(ids), ErrApplicationNotFound)
	}

	assignedAt := s.now().UTC()
	if err := s.applications.AssignRecruiter(ctx, ids, recruiter.ID, assignedAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignCandidatesResponse{}, ErrApplicationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment failed")
		return dto.AssignCandidatesResponse{}, err
	}

	jobIDs := make([]uint, 0, len(applications))
	for _, application := range applications {
		jobIDs = append(jobIDs, application.JobID)
	}
	jobIDs = uniqueIDs(jobIDs)

	observability.CandidateAssignments().Add(float64(len(ids)))
	invalidateJobs(ctx, s.results, jobIDs...)

	for _, application := range applications {
		applicationID := application.ID
		recordActivity(ctx, s.activity, s.logger, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     ActionCandidatesAssigned,
			EntityType: "application",
			EntityID:   &applicationID,
			Metadata: map[string]interface{}{
				"recruiter_id": recruiter.ID,
				"job_id":       application.JobID,
			},
		})
	}

	publishEvent(ctx, s.events, s.logger, events.ApplicationsAssigned, AssignmentEvent{
		RecruiterID:    recruiter.ID,
		ApplicationIDs: ids,
		JobIDs:         jobIDs,
		AssignedBy:     actor.ID,
		AssignedAt:     assignedAt,
	})

	s.logger.Info().
		Uint("recruiter_id", recruiter.ID).
		Int("applications", len(ids)).
		Uint("actor_id", actor.ID).
		Msg("candidates assigned")
	span.SetStatus(codes.Ok, "assigned")

	return dto.AssignCandidatesResponse{
		RecruiterID:    recruiter.ID,
		ApplicationIDs: ids,
		AssignedCount:  len(ids),
	}, nil
}

func (s *candidateAssignmentService) ListAssigned(ctx context.Context, recruiterID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, repository.ApplicationFilter{RecruiterID: &recruiterID})
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}
