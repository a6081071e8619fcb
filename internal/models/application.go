package models

import "time"

// Application statuses. The progression is linear-ish but not enforced.
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusInterview = "interview"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
)

// ApplicationStatuses lists every valid application status.
var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusInterview,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// Application is a candidate's submission for a job along with its scoring state.
type Application struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex:idx_application_user_job" json:"userId"`
	JobID                uint       `gorm:"not null;index;uniqueIndex:idx_application_user_job" json:"jobId"`
	Status               string     `gorm:"size:32;not null;default:pending" json:"status"`
	CoverLetter          string     `gorm:"type:text" json:"coverLetter"`
	CVPath               string     `gorm:"size:512" json:"cvPath"`
	MotivationLetterPath string     `gorm:"size:512" json:"motivationLetterPath"`
	AvailabilityDate     *time.Time `json:"availabilityDate"`
	SalaryExpectation    string     `gorm:"size:128" json:"salaryExpectation"`
	AutoScore            *int       `json:"autoScore"`
	ManualScore          *int       `json:"manualScore"`
	ScoreNotes           string     `gorm:"type:text" json:"scoreNotes"`
	AssignedRecruiterID  *uint      `gorm:"index" json:"assignedRecruiter"`
	AssignedAt           *time.Time `json:"assignedAt"`
	ScoredAt             *time.Time `json:"scoredAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	User                 User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"candidate"`
	Job                  Job        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job"`
}

// IsAssignedTo reports whether the application is bound to the given recruiter.
func (a Application) IsAssignedTo(recruiterID uint) bool {
	return a.AssignedRecruiterID != nil && *a.AssignedRecruiterID == recruiterID
}

// HasManualScore reports whether a recruiter has scored the application.
func (a Application) HasManualScore() bool {
	return a.ManualScore != nil
}

// IsValidApplicationStatus reports whether status is a known application status.
func IsValidApplicationStatus(status string) bool {
	for _, candidate := range ApplicationStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}
