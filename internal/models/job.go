package models

import (
	"time"

	"gorm.io/datatypes"
)

// Contract types accepted for a job posting.
const (
	ContractCDI       = "CDI"
	ContractCDD       = "CDD"
	ContractFreelance = "Freelance"
)

// Experience levels, ordered from junior to senior.
const (
	ExperienceJunior       = "Débutant"
	ExperienceIntermediate = "Intermédiaire"
	ExperienceSenior       = "Senior"
)

// Job is a published position candidates can apply to.
type Job struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Title           string                      `gorm:"size:255;not null" json:"title"`
	Company         string                      `gorm:"size:255;not null" json:"company"`
	Location        string                      `gorm:"size:255" json:"location"`
	Description     string                      `gorm:"type:text" json:"description"`
	Requirements    string                      `gorm:"type:text" json:"requirements"`
	Salary          string                      `gorm:"size:128" json:"salary"`
	ContractType    string                      `gorm:"size:32;not null" json:"contractType"`
	ExperienceLevel string                      `gorm:"size:32;not null" json:"experienceLevel"`
	Skills          datatypes.JSONSlice[string] `gorm:"type:json" json:"skills"`
	IsActive        bool                        `gorm:"not null;index" json:"isActive"`
	CreatedBy       uint                        `json:"createdBy"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}
