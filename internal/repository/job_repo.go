package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// JobFilter narrows job listings.
type JobFilter struct {
	ActiveOnly bool
	Search     string
}

// JobRepository persists job postings.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository constructs the job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return models.Job{}, err
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(company) LIKE LOWER(?))", like, like)
	}

	var jobs []models.Job
	err := query.Order("created_at DESC, id DESC").Find(&jobs).Error
	return jobs, err
}
