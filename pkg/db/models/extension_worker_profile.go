package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtensionWorkerProfile is the 1:1 detail record for extension-worker
// accounts. IsApproved gates nothing today; tutorial upload authorization
// checks User.UserType only.
type ExtensionWorkerProfile struct {
	ID                      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                  uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Organization            string     `gorm:"not null"`
	EmployeeID              string     `gorm:"column:employee_id;not null;uniqueIndex"`
	Specialization          string     `gorm:"not null"`
	RegionsCovered          string     `gorm:"column:regions_covered;not null"`
	VerificationDocumentKey *string    `gorm:"column:verification_document_key"`
	IsApproved              bool       `gorm:"column:is_approved;not null;default:false"`
	ApprovedAt              *time.Time `gorm:"column:approved_at"`
}
