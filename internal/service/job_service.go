package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/dto"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/repository"
)

// ErrJobNotFound indicates the job does not exist.
var ErrJobNotFound = errors.New("job not found")

// JobService manages job postings.
type JobService interface {
	List(ctx context.Context, search string, includeInactive bool) ([]dto.JobResponse, error)
	Get(ctx context.Context, id uint) (dto.JobResponse, error)
	Create(ctx context.Context, payload dto.JobCreateRequest, actor ActivityActor) (dto.JobResponse, error)
	Update(ctx context.Context, id uint, payload dto.JobUpdateRequest, actor ActivityActor) (dto.JobResponse, error)
	Deactivate(ctx context.Context, id uint, actor ActivityActor) error
}

type jobService struct {
	repo      repository.JobRepository
	validator *validator.Validate
	activity  ActivityRecorder
	results   ResultsInvalidator
	logger    zerolog.Logger
}

// NewJobService constructs the job service.
func NewJobService(repo repository.JobRepository, validator *validator.Validate, activity ActivityRecorder, results ResultsInvalidator, logger zerolog.Logger) JobService {
	return &jobService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		results:   results,
		logger:    logger.With().Str("component", "job_service").Logger(),
	}
}

func (s *jobService) List(ctx context.Context, search string, includeInactive bool) ([]dto.JobResponse, error) {
	jobs, err := s.repo.List(ctx, repository.JobFilter{
		ActiveOnly: !includeInactive,
		Search:     strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, dto.NewJobResponse(job))
	}
	return responses, nil
}

func (s *jobService) Get(ctx context.Context, id uint) (dto.JobResponse, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return dto.JobResponse{}, err
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) Create(ctx context.Context, payload dto.JobCreateRequest, actor ActivityActor) (dto.JobResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, err
	}

	job := models.Job{
		Title:           strings.TrimSpace(payload.Title),
		Company:         strings.TrimSpace(payload.Company),
		Location:        strings.TrimSpace(payload.Location),
		Description:     strings.TrimSpace(payload.Description),
		Requirements:    strings.TrimSpace(payload.Requirements),
		Salary:          strings.TrimSpace(payload.Salary),
		ContractType:    payload.ContractType,
		ExperienceLevel: payload.ExperienceLevel,
		Skills:          trimSkills(payload.Skills),
		IsActive:        true,
		CreatedBy:       actor.ID,
	}
	if payload.IsActive != nil {
		job.IsActive = *payload.IsActive
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		return dto.JobResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     ActionJobCreated,
		EntityType: "job",
		EntityID:   &job.ID,
		Metadata:   map[string]interface{}{"title": job.Title},
	})

	return dto.NewJobResponse(job), nil
}

func (s *jobService) Update(ctx context.Context, id uint, payload dto.JobUpdateRequest, actor ActivityActor) (dto.JobResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, err
	}

	job, err := s.load(ctx, id)
	if err != nil {
		return dto.JobResponse{}, err
	}

	changed := make([]string, 0)
	setString := func(field string, target *string, value *string) {
		if value == nil {
			return
		}
		*target = strings.TrimSpace(*value)
		changed = append(changed, field)
	}
	setString("title", &job.Title, payload.Title)
	setString("company", &job.Company, payload.Company)
	setString("location", &job.Location, payload.Location)
	setString("description", &job.Description, payload.Description)
	setString("requirements", &job.Requirements, payload.Requirements)
	setString("salary", &job.Salary, payload.Salary)
	setString("contract_type", &job.ContractType, payload.ContractType)
	setString("experience_level", &job.ExperienceLevel, payload.ExperienceLevel)
	if payload.Skills != nil {
		job.Skills = trimSkills(payload.Skills)
		changed = append(changed, "skills")
	}
	if payload.IsActive != nil {
		job.IsActive = *payload.IsActive
		changed = append(changed, "is_active")
	}

	if err := s.repo.Update(ctx, &job); err != nil {
		return dto.JobResponse{}, err
	}

	invalidateJobs(ctx, s.results, job.ID)
	if len(changed) > 0 {
		recordActivity(ctx, s.activity, s.logger, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     ActionJobUpdated,
			EntityType: "job",
			EntityID:   &job.ID,
			Metadata:   map[string]interface{}{"fields": changed},
		})
	}

	return dto.NewJobResponse(job), nil
}

// Deactivate closes the job to new applications. Existing applications and scores are kept.
func (s *jobService) Deactivate(ctx context.Context, id uint, actor ActivityActor) error {
	job, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !job.IsActive {
		return nil
	}

	job.IsActive = false
	if err := s.repo.Update(ctx, &job); err != nil {
		return err
	}

	invalidateJobs(ctx, s.results, job.ID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     ActionJobDeactivated,
		EntityType: "job",
		EntityID:   &job.ID,
	})
	return nil
}

func (s *jobService) load(ctx context.Context, id uint) (models.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Job{}, ErrJobNotFound
		}
		return models.Job{}, err
	}
	return job, nil
}

func trimSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
