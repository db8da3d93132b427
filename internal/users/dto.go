package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                uuid.UUID      `json:"id"`
	Username          string         `json:"username"`
	Email             string         `json:"email"`
	PhoneNumber       string         `json:"phone_number"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	FullName          string         `json:"full_name"`
	UserType          enums.UserType `json:"user_type"`
	ProfilePictureURL *string        `json:"profile_picture_url,omitempty"`
	IsVerified        bool           `json:"is_verified"`
	IsActive          bool           `json:"is_active"`
	LastLoginAt       *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	FirstName    string
	LastName     string
	UserType     enums.UserType
}

// FromModel maps the persistence model into the transport DTO. The picture URL
// is resolved by the caller since it depends on the storage access mode.
func FromModel(u *models.User, pictureURL *string) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		FullName:          u.FullName(),
		UserType:          u.UserType,
		ProfilePictureURL: pictureURL,
		IsVerified:        u.IsVerified,
		IsActive:          u.IsActive,
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	userType := c.UserType
	if userType == "" {
		userType = enums.UserTypeFarmer
	}

	return &models.User{
		Username:     c.Username,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		UserType:     userType,
		IsActive:     true,
	}
}
