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

// UserService exposes profiles and the reviewer directory.
type UserService interface {
	Me(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ListReviewers(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	users        repository.UserRepository
	applications repository.ApplicationRepository
	validator    *validator.Validate
	results      ResultsInvalidator
	logger       zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(users repository.UserRepository, applications repository.ApplicationRepository, validator *validator.Validate, results ResultsInvalidator, logger zerolog.Logger) UserService {
	return &userService{
		users:        users,
		applications: applications,
		validator:    validator,
		results:      results,
		logger:       logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Me(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile edits the fields read by automatic scoring and drops the cached results of every
// job the user applied to.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.FirstName != nil {
		user.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = strings.TrimSpace(*payload.LastName)
	}
	if payload.Phone != nil {
		user.Phone = strings.TrimSpace(*payload.Phone)
	}
	if payload.ExperienceLevel != nil {
		user.ExperienceLevel = *payload.ExperienceLevel
	}
	if payload.YearsExperience != nil {
		years := *payload.YearsExperience
		user.YearsExperience = &years
	}
	if payload.Skills != nil {
		user.Skills = trimSkills(payload.Skills)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if s.results != nil && s.applications != nil {
		applications, err := s.applications.List(ctx, repository.ApplicationFilter{UserID: &user.ID})
		if err != nil {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to list applications for cache invalidation")
		}
		jobIDs := make([]uint, 0, len(applications))
		for _, application := range applications {
			jobIDs = append(jobIDs, application.JobID)
		}
		invalidateJobs(ctx, s.results, jobIDs...)
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) ListReviewers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.ListByRoles(ctx, []string{models.RoleRecruiter, models.RoleHR, models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *userService) load(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
