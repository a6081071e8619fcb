package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/repository"
	"github.com/noah-isme/hire-go-api/internal/scoring"
)

var (
	// ErrApplicationNotFound indicates the application does not exist.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicateApplication indicates the candidate already applied to the job.
	ErrDuplicateApplication = errors.New("candidate already applied to this job")
	// ErrJobClosed indicates the job no longer accepts applications.
	ErrJobClosed = errors.New("job is not accepting applications")
	// ErrInvalidStatus indicates an unknown application status.
	ErrInvalidStatus = errors.New("invalid application status")
	// ErrInvalidAvailabilityDate indicates an unparseable availability date.
	ErrInvalidAvailabilityDate = errors.New("availability date must be RFC 3339 or YYYY-MM-DD")
	// ErrUserNotFound indicates the authenticated user has no profile.
	ErrUserNotFound = errors.New("user not found")
)

// ApplicationService handles candidate submissions and the admin review pipeline.
type ApplicationService interface {
	Apply(ctx context.Context, candidateID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	ListMine(ctx context.Context, candidateID uint) ([]dto.ApplicationResponse, error)
	List(ctx context.Context, req dto.ApplicationListRequest) ([]dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id uint, payload dto.ApplicationStatusUpdateRequest, actor ActivityActor) (dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	users        repository.UserRepository
	engine       *scoring.Engine
	validator    *validator.Validate
	activity     ActivityRecorder
	results      ResultsInvalidator
	policy       *bluemonday.Policy
	logger       zerolog.Logger
}

// NewApplicationService constructs the application service.
func NewApplicationService(applications repository.ApplicationRepository, jobs repository.JobRepository, users repository.UserRepository, engine *scoring.Engine, validator *validator.Validate, activity ActivityRecorder, results ResultsInvalidator, logger zerolog.Logger) ApplicationService {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		users:        users,
		engine:       engine,
		validator:    validator,
		activity:     activity,
		results:      results,
		policy:       bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "application_service").Logger(),
	}
}

func (s *applicationService) Apply(ctx context.Context, candidateID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	availability, err := parseAvailabilityDate(payload.AvailabilityDate)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	candidate, err := s.users.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrUserNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	job, err := s.jobs.GetByID(ctx, payload.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrJobNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	if !job.IsActive {
		return dto.ApplicationResponse{}, ErrJobClosed
	}

	exists, err := s.applications.ExistsForUserAndJob(ctx, candidate.ID, job.ID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if exists {
		return dto.ApplicationResponse{}, ErrDuplicateApplication
	}

	application := models.Application{
		UserID:               candidate.ID,
		JobID:                job.ID,
		Status:               models.ApplicationStatusPending,
		CoverLetter:          sanitizeText(s.policy, payload.CoverLetter),
		CVPath:               strings.TrimSpace(payload.CVPath),
		MotivationLetterPath: strings.TrimSpace(payload.MotivationLetterPath),
		AvailabilityDate:     availability,
		SalaryExpectation:    strings.TrimSpace(payload.SalaryExpectation),
	}
	result := s.engine.Compute(scoring.Input{Application: application, Candidate: candidate, Job: job})
	application.AutoScore = &result.AutoScore

	if err := s.applications.Create(ctx, &application); err != nil {
		// A concurrent submission can pass the existence check; the unique index decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ApplicationResponse{}, ErrDuplicateApplication
		}
		return dto.ApplicationResponse{}, err
	}

	invalidateJobs(ctx, s.results, job.ID)
	s.logger.Info().Uint("application_id", application.ID).Uint("job_id", job.ID).Int("auto_score", result.AutoScore).Msg("application submitted")

	application.User = candidate
	application.Job = job
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListMine(ctx context.Context, candidateID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, repository.ApplicationFilter{UserID: &candidateID})
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) List(ctx context.Context, req dto.ApplicationListRequest) ([]dto.ApplicationResponse, error) {
	filter := repository.ApplicationFilter{Status: strings.TrimSpace(req.Status)}
	if filter.Status != "" && !models.IsValidApplicationStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if req.JobID > 0 {
		filter.JobID = &req.JobID
	}

	applications, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

// UpdateStatus accepts any known status; the pipeline order is advisory.
func (s *applicationService) UpdateStatus(ctx context.Context, id uint, payload dto.ApplicationStatusUpdateRequest, actor ActivityActor) (dto.ApplicationResponse, error) {
	if !models.IsValidApplicationStatus(strings.TrimSpace(payload.Status)) {
		return dto.ApplicationResponse{}, ErrInvalidStatus
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	previous := application.Status
	if err := s.applications.UpdateStatus(ctx, id, payload.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	application.Status = payload.Status

	invalidateJobs(ctx, s.results, application.JobID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     ActionApplicationStatus,
		EntityType: "application",
		EntityID:   &application.ID,
		Metadata: map[string]interface{}{
			"from": previous,
			"to":   application.Status,
		},
	})

	return dto.NewApplicationResponse(application), nil
}

func parseAvailabilityDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", trimmed, ErrInvalidAvailabilityDate)
}
