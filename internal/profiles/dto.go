package profiles

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// FarmerProfileDTO is the nested farmer section of a profile payload.
type FarmerProfileDTO struct {
	FarmName          string           `json:"farm_name"`
	FarmSize          *decimal.Decimal `json:"farm_size"`
	Location          string           `json:"location"`
	Region            string           `json:"region"`
	CropsGrown        string           `json:"crops_grown"`
	FarmingMethod     string           `json:"farming_method"`
	YearsOfExperience *int             `json:"years_of_experience"`
}

// ExtensionWorkerProfileDTO is the nested extension worker section.
type ExtensionWorkerProfileDTO struct {
	Organization            string     `json:"organization"`
	EmployeeID              string     `json:"employee_id"`
	Specialization          string     `json:"specialization"`
	RegionsCovered          string     `json:"regions_covered"`
	VerificationDocumentURL *string    `json:"verification_document_url"`
	IsApproved              bool       `json:"is_approved"`
	ApprovedAt              *time.Time `json:"approved_at"`
}

// ProfileDTO is the full own-profile payload.
type ProfileDTO struct {
	users.UserDTO
	FarmerProfile          *FarmerProfileDTO          `json:"farmer_profile,omitempty"`
	ExtensionWorkerProfile *ExtensionWorkerProfileDTO `json:"extension_worker_profile,omitempty"`
}

// UpdateProfileRequest carries partial own-profile edits. Username and
// user_type are immutable and deliberately absent.
type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`

	FarmerProfile          *UpdateFarmerProfileRequest          `json:"farmer_profile,omitempty"`
	ExtensionWorkerProfile *UpdateExtensionWorkerProfileRequest `json:"extension_worker_profile,omitempty"`
}

// UpdateFarmerProfileRequest carries partial farmer-section edits.
type UpdateFarmerProfileRequest struct {
	FarmName          *string          `json:"farm_name,omitempty"`
	FarmSize          *decimal.Decimal `json:"farm_size,omitempty"`
	Location          *string          `json:"location,omitempty"`
	Region            *string          `json:"region,omitempty"`
	CropsGrown        *string          `json:"crops_grown,omitempty"`
	FarmingMethod     *string          `json:"farming_method,omitempty"`
	YearsOfExperience *int             `json:"years_of_experience,omitempty" validate:"omitempty,gte=0"`
}

// UpdateExtensionWorkerProfileRequest carries partial worker-section edits.
// Approval state is owned by the review workflow, not the user.
type UpdateExtensionWorkerProfileRequest struct {
	Organization   *string `json:"organization,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	RegionsCovered *string `json:"regions_covered,omitempty"`
}

func toFarmerProfileDTO(p *models.FarmerProfile) *FarmerProfileDTO {
	if p == nil {
		return nil
	}
	return &FarmerProfileDTO{
		FarmName:          p.FarmName,
		FarmSize:          p.FarmSize,
		Location:          p.Location,
		Region:            p.Region,
		CropsGrown:        p.CropsGrown,
		FarmingMethod:     p.FarmingMethod.String(),
		YearsOfExperience: p.YearsOfExperience,
	}
}

func toExtensionWorkerProfileDTO(p *models.ExtensionWorkerProfile, documentURL *string) *ExtensionWorkerProfileDTO {
	if p == nil {
		return nil
	}
	return &ExtensionWorkerProfileDTO{
		Organization:            p.Organization,
		EmployeeID:              p.EmployeeID,
		Specialization:          p.Specialization,
		RegionsCovered:          p.RegionsCovered,
		VerificationDocumentURL: documentURL,
		IsApproved:              p.IsApproved,
		ApprovedAt:              p.ApprovedAt,
	}
}
