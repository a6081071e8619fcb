package dto

import (
	"time"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// JobCreateRequest captures the payload for publishing a job.
type JobCreateRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=255"`
	Company         string   `json:"company" validate:"required,min=1,max=255"`
	Location        string   `json:"location" validate:"omitempty,max=255"`
	Description     string   `json:"description" validate:"omitempty,max=20000"`
	Requirements    string   `json:"requirements" validate:"omitempty,max=20000"`
	Salary          string   `json:"salary" validate:"omitempty,max=128"`
	ContractType    string   `json:"contractType" validate:"required,oneof=CDI CDD Freelance"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=Débutant Intermédiaire Senior"`
	Skills          []string `json:"skills" validate:"omitempty,max=50,dive,required,max=64"`
	IsActive        *bool    `json:"isActive"`
}

// JobUpdateRequest allows editing a published job.
type JobUpdateRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=2,max=255"`
	Company         *string  `json:"company" validate:"omitempty,min=1,max=255"`
	Location        *string  `json:"location" validate:"omitempty,max=255"`
	Description     *string  `json:"description" validate:"omitempty,max=20000"`
	Requirements    *string  `json:"requirements" validate:"omitempty,max=20000"`
	Salary          *string  `json:"salary" validate:"omitempty,max=128"`
	ContractType    *string  `json:"contractType" validate:"omitempty,oneof=CDI CDD Freelance"`
	ExperienceLevel *string  `json:"experienceLevel" validate:"omitempty,oneof=Débutant Intermédiaire Senior"`
	Skills          []string `json:"skills" validate:"omitempty,max=50,dive,required,max=64"`
	IsActive        *bool    `json:"isActive"`
}

// JobResponse serializes a job.
type JobResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	Salary          string    `json:"salary"`
	ContractType    string    `json:"contractType"`
	ExperienceLevel string    `json:"experienceLevel"`
	Skills          []string  `json:"skills"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// JobSummary is the compact job view embedded in ranking results.
type JobSummary struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	ExperienceLevel string `json:"experienceLevel"`
}

// NewJobResponse converts a job model into a DTO.
func NewJobResponse(job models.Job) JobResponse {
	return JobResponse{
		ID:              job.ID,
		Title:           job.Title,
		Company:         job.Company,
		Location:        job.Location,
		Description:     job.Description,
		Requirements:    job.Requirements,
		Salary:          job.Salary,
		ContractType:    job.ContractType,
		ExperienceLevel: job.ExperienceLevel,
		Skills:          stringsOrEmpty(job.Skills),
		IsActive:        job.IsActive,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}

// NewJobSummary converts a job model into its compact form.
func NewJobSummary(job models.Job) JobSummary {
	return JobSummary{
		ID:              job.ID,
		Title:           job.Title,
		Company:         job.Company,
		Location:        job.Location,
		ExperienceLevel: job.ExperienceLevel,
	}
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
