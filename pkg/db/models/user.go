package models

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. Exactly one of the profile
// associations is populated, selected by UserType; application code keeps the
// pairing consistent since the schema does not.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username          string         `gorm:"type:text;not null;uniqueIndex"`
	Email             string         `gorm:"type:text;not null;uniqueIndex"`
	PhoneNumber       string         `gorm:"column:phone_number;type:text;not null;uniqueIndex"`
	PasswordHash      string         `gorm:"column:password_hash;not null"`
	FirstName         string         `gorm:"column:first_name;not null;default:''"`
	LastName          string         `gorm:"column:last_name;not null;default:''"`
	UserType          enums.UserType `gorm:"column:user_type;type:text;not null;default:'farmer'"`
	ProfilePictureKey *string        `gorm:"column:profile_picture_key"`
	IsVerified        bool           `gorm:"column:is_verified;not null;default:false"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt       *time.Time     `gorm:"column:last_login_at"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	FarmerProfile          *FarmerProfile          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExtensionWorkerProfile *ExtensionWorkerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// FullName returns "First Last" when both parts exist, otherwise the username.
func (u User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
