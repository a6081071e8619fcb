package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	JobID       *uint
	UserID      *uint
	RecruiterID *uint
	Status      string
	ScoredOnly  bool
}

// ApplicationRepository persists applications and their scoring state.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	ExistsForUserAndJob(ctx context.Context, userID, jobID uint) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Application, error)
	AssignRecruiter(ctx context.Context, ids []uint, recruiterID uint, at time.Time) error
	UpdateAutoScores(ctx context.Context, scores map[uint]int) error
	UpdateManualScore(ctx context.Context, id uint, score int, notes string, at time.Time) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs the application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Job").
		First(&application, id).Error; err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (r *applicationRepository) ExistsForUserAndJob(ctx context.Context, userID, jobID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	return count > 0, err
}

// List returns applications oldest first, which is also the ranking tie-break order.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := r.db.WithContext(ctx).Preload("User").Preload("Job")

	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.RecruiterID != nil {
		query = query.Where("assigned_recruiter_id = ?", *filter.RecruiterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ScoredOnly {
		query = query.Where("manual_score IS NOT NULL")
	}

	var applications []models.Application
	err := query.Order("created_at ASC, id ASC").Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&applications).Error
	return applications, err
}

// AssignRecruiter binds every listed application to the recruiter, or none of them when any
// id is unknown.
func (r *applicationRepository) AssignRecruiter(ctx context.Context, ids []uint, recruiterID uint, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"assigned_recruiter_id": recruiterID,
				"assigned_at":           at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *applicationRepository) UpdateAutoScores(ctx context.Context, scores map[uint]int) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, score := range scores {
			if err := tx.Model(&models.Application{}).
				Where("id = ?", id).
				UpdateColumn("auto_score", score).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *applicationRepository) UpdateManualScore(ctx context.Context, id uint, score int, notes string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"manual_score": score,
			"score_notes":  notes,
			"scored_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
