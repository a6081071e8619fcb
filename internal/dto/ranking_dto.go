package dto

import (
	"time"

	"github.com/noah-isme/hire-go-api/internal/scoring"
)

// RankedCandidate is one entry of the top-candidates and final-top3 views.
type RankedCandidate struct {
	ApplicationID     uint             `json:"applicationId"`
	Candidate         CandidateSummary `json:"candidate"`
	Job               JobSummary       `json:"job"`
	Status            string           `json:"status"`
	AutoScore         int              `json:"autoScore"`
	ManualScore       *int             `json:"manualScore"`
	TotalScore        float64          `json:"totalScore"`
	Factors           scoring.Factors  `json:"factors"`
	AssignedRecruiter *uint            `json:"assignedRecruiter"`
	AppliedAt         time.Time        `json:"appliedAt"`
}

// AssignCandidatesRequest binds applications to a recruiter for manual scoring.
type AssignCandidatesRequest struct {
	ApplicationIDs []uint `json:"applicationIds" validate:"required,min=1,max=100,dive,gt=0"`
	RecruiterID    uint   `json:"recruiterId" validate:"required,gt=0"`
}

// AssignCandidatesResponse acknowledges an assignment.
type AssignCandidatesResponse struct {
	RecruiterID    uint   `json:"recruiterId"`
	ApplicationIDs []uint `json:"applicationIds"`
	AssignedCount  int    `json:"assignedCount"`
}

// ManualScoreRequest captures a recruiter's score for an assigned application.
type ManualScoreRequest struct {
	Score *int   `json:"score" validate:"required,gte=0,lte=100"`
	Notes string `json:"notes" validate:"omitempty,max=5000"`
}
