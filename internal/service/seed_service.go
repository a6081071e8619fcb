package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedInvalidItem indicates a seed item is missing required fields.
	ErrSeedInvalidItem = errors.New("seed item is invalid")
)

// SeedService provisions users and jobs for demos and environments without an identity provider.
type SeedService interface {
	SeedUsers(ctx context.Context, token string, items []models.User) (int64, error)
	SeedJobs(ctx context.Context, token string, items []models.Job) (int64, error)
}

type seedService struct {
	users   repository.UserRepository
	jobs    repository.JobRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, jobs repository.JobRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:   users,
		jobs:    jobs,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedUsers(ctx context.Context, token string, items []models.User) (int64, error) {
	if err := s.guard(token); err != nil {
		return 0, err
	}
	normalized, err := normalizeSeedUsers(items)
	if err != nil {
		return 0, err
	}
	affected, err := s.users.UpsertBatch(ctx, normalized)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Msg("users seeded")
	return affected, nil
}

func (s *seedService) SeedJobs(ctx context.Context, token string, items []models.Job) (int64, error) {
	if err := s.guard(token); err != nil {
		return 0, err
	}

	var affected int64
	for i := range items {
		job := items[i]
		job.ID = 0
		job.Title = strings.TrimSpace(job.Title)
		job.Company = strings.TrimSpace(job.Company)
		if job.Title == "" || job.Company == "" {
			return affected, ErrSeedInvalidItem
		}
		if job.ContractType == "" {
			job.ContractType = models.ContractCDI
		}
		if job.ExperienceLevel == "" {
			job.ExperienceLevel = models.ExperienceIntermediate
		}
		job.Skills = trimSkills(job.Skills)
		job.IsActive = true
		if err := s.jobs.Create(ctx, &job); err != nil {
			return affected, err
		}
		affected++
	}
	s.logger.Info().Int64("affected", affected).Msg("jobs seeded")
	return affected, nil
}

func (s *seedService) guard(token string) error {
	if !s.enabled {
		return ErrSeedDisabled
	}
	expected := strings.TrimSpace(s.token)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) != 1 {
		return ErrSeedUnauthorized
	}
	return nil
}

func normalizeSeedUsers(items []models.User) ([]models.User, error) {
	normalized := make([]models.User, 0, len(items))
	for _, item := range items {
		item.ID = 0
		item.Email = strings.ToLower(strings.TrimSpace(item.Email))
		item.Role = strings.ToLower(strings.TrimSpace(item.Role))
		if item.Email == "" {
			return nil, ErrSeedInvalidItem
		}
		if item.Role == "" {
			item.Role = models.RoleCandidate
		}
		if item.Role != models.RoleCandidate && !models.IsReviewerRole(item.Role) {
			return nil, ErrSeedInvalidItem
		}
		item.Skills = trimSkills(item.Skills)
		normalized = append(normalized, item)
	}
	return normalized, nil
}
