package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// UserResponse serializes a platform user.
type UserResponse struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	ExperienceLevel string    `json:"experienceLevel"`
	YearsExperience *int      `json:"yearsExperience"`
	Skills          []string  `json:"skills"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProfileUpdateRequest edits the profile fields read by automatic scoring.
type ProfileUpdateRequest struct {
	FirstName       *string  `json:"firstName" validate:"omitempty,max=128"`
	LastName        *string  `json:"lastName" validate:"omitempty,max=128"`
	Phone           *string  `json:"phone" validate:"omitempty,max=64"`
	ExperienceLevel *string  `json:"experienceLevel" validate:"omitempty,oneof=Débutant Intermédiaire Senior"`
	YearsExperience *int     `json:"yearsExperience" validate:"omitempty,gte=0,lte=60"`
	Skills          []string `json:"skills" validate:"omitempty,max=50,dive,required,max=64"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Role:            user.Role,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		ExperienceLevel: user.ExperienceLevel,
		YearsExperience: user.YearsExperience,
		Skills:          stringsOrEmpty(user.Skills),
		CreatedAt:       user.CreatedAt,
	}
}

// AdminActivityListRequest defines filters for retrieving activity logs.
type AdminActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Action     string
	EntityType string
	EntityID   uint
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actorId"`
	ActorRole  string                 `json:"actorRole"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityID   *uint                  `json:"entityId"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	return AdminActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadataFromJSON(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}
