package dto

import (
	"time"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// ApplicationCreateRequest captures a candidate's submission for a job.
// AvailabilityDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
type ApplicationCreateRequest struct {
	JobID                uint   `json:"jobId" validate:"required,gt=0"`
	CoverLetter          string `json:"coverLetter" validate:"omitempty,max=10000"`
	CVPath               string `json:"cvPath" validate:"omitempty,max=512"`
	MotivationLetterPath string `json:"motivationLetterPath" validate:"omitempty,max=512"`
	AvailabilityDate     string `json:"availabilityDate" validate:"omitempty,max=64"`
	SalaryExpectation    string `json:"salaryExpectation" validate:"omitempty,max=128"`
}

// ApplicationStatusUpdateRequest moves an application through the review pipeline.
type ApplicationStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed interview accepted rejected"`
}

// ApplicationListRequest filters admin application listings.
type ApplicationListRequest struct {
	JobID  uint
	Status string
}

// CandidateSummary is the candidate view embedded in application payloads.
type CandidateSummary struct {
	ID              uint     `json:"id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Phone           string   `json:"phone"`
	ExperienceLevel string   `json:"experienceLevel"`
	YearsExperience *int     `json:"yearsExperience"`
	Skills          []string `json:"skills"`
}

// ApplicationResponse serializes an application with its scoring state.
type ApplicationResponse struct {
	ID                   uint              `json:"id"`
	UserID               uint              `json:"userId"`
	JobID                uint              `json:"jobId"`
	Status               string            `json:"status"`
	CoverLetter          string            `json:"coverLetter"`
	CVPath               string            `json:"cvPath"`
	MotivationLetterPath string            `json:"motivationLetterPath"`
	AvailabilityDate     *time.Time        `json:"availabilityDate"`
	SalaryExpectation    string            `json:"salaryExpectation"`
	AutoScore            *int              `json:"autoScore"`
	ManualScore          *int              `json:"manualScore"`
	ScoreNotes           string            `json:"scoreNotes"`
	AssignedRecruiter    *uint             `json:"assignedRecruiter"`
	AssignedAt           *time.Time        `json:"assignedAt"`
	ScoredAt             *time.Time        `json:"scoredAt"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
	Candidate            *CandidateSummary `json:"candidate,omitempty"`
	Job                  *JobSummary       `json:"job,omitempty"`
}

// NewCandidateSummary converts a user into the candidate view.
func NewCandidateSummary(user models.User) CandidateSummary {
	return CandidateSummary{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		ExperienceLevel: user.ExperienceLevel,
		YearsExperience: user.YearsExperience,
		Skills:          stringsOrEmpty(user.Skills),
	}
}

// NewApplicationResponse converts an application model into a DTO. Preloaded candidate and
// job associations are included when present.
func NewApplicationResponse(application models.Application) ApplicationResponse {
	response := ApplicationResponse{
		ID:                   application.ID,
		UserID:               application.UserID,
		JobID:                application.JobID,
		Status:               application.Status,
		CoverLetter:          application.CoverLetter,
		CVPath:               application.CVPath,
		MotivationLetterPath: application.MotivationLetterPath,
		AvailabilityDate:     application.AvailabilityDate,
		SalaryExpectation:    application.SalaryExpectation,
		AutoScore:            application.AutoScore,
		ManualScore:          application.ManualScore,
		ScoreNotes:           application.ScoreNotes,
		AssignedRecruiter:    application.AssignedRecruiterID,
		AssignedAt:           application.AssignedAt,
		ScoredAt:             application.ScoredAt,
		CreatedAt:            application.CreatedAt,
		UpdatedAt:            application.UpdatedAt,
	}
	if application.User.ID != 0 {
		candidate := NewCandidateSummary(application.User)
		response.Candidate = &candidate
	}
	if application.Job.ID != 0 {
		job := NewJobSummary(application.Job)
		response.Job = &job
	}
	return response
}

// NewApplicationResponseSlice converts a list of applications.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}
	return responses
}
