package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role values carried by platform users.
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
	RoleHR        = "hr"
	RoleAdmin     = "admin"
)

// User is an account on the platform. Candidates apply to jobs; recruiters, HR and admins review them.
type User struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Email           string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role            string                      `gorm:"size:32;not null;index" json:"role"`
	FirstName       string                      `gorm:"size:128" json:"firstName"`
	LastName        string                      `gorm:"size:128" json:"lastName"`
	Phone           string                      `gorm:"size:64" json:"phone"`
	ExperienceLevel string                      `gorm:"size:32" json:"experienceLevel"`
	YearsExperience *int                        `json:"yearsExperience"`
	Skills          datatypes.JSONSlice[string] `gorm:"type:json" json:"skills"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// CanScore reports whether the user may be assigned applications for manual scoring.
func (u User) CanScore() bool {
	return IsReviewerRole(u.Role)
}

// IsReviewerRole reports whether role belongs to the recruiter/hr/admin family.
func IsReviewerRole(role string) bool {
	switch role {
	case RoleRecruiter, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}
