package auth

import (
	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	"github.com/shopspring/decimal"
)

// LoginRequest captures the credentials sent to the login endpoint. The
// identifier may be a username, email address, or phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// FarmerProfileInput carries the optional farm details collected at signup.
type FarmerProfileInput struct {
	FarmName          string           `json:"farm_name,omitempty"`
	FarmSize          *decimal.Decimal `json:"farm_size,omitempty"`
	Location          string           `json:"location,omitempty"`
	Region            string           `json:"region,omitempty"`
	CropsGrown        string           `json:"crops_grown,omitempty"`
	FarmingMethod     string           `json:"farming_method,omitempty"`
	YearsOfExperience *int             `json:"years_of_experience,omitempty" validate:"omitempty,gte=0"`
}

// ExtensionWorkerInput carries the organization details collected at signup.
type ExtensionWorkerInput struct {
	Organization   string `json:"organization" validate:"required"`
	EmployeeID     string `json:"employee_id" validate:"required"`
	Specialization string `json:"specialization,omitempty"`
	RegionsCovered string `json:"regions_covered,omitempty"`
}

// RegisterRequest contains the payload required for onboarding a new user.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	UserType    string `json:"user_type" validate:"required"`

	FarmerProfile   *FarmerProfileInput   `json:"farmer_profile,omitempty"`
	ExtensionWorker *ExtensionWorkerInput `json:"extension_worker_profile,omitempty"`
}

// AuthResponse contains the bearer token and user produced by login or signup.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// ChangePasswordRequest carries the credential rotation payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// VerifyResponse echoes the authenticated user for token verification.
type VerifyResponse struct {
	Valid bool           `json:"valid"`
	User  *users.UserDTO `json:"user"`
}
