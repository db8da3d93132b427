package models

import (
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FarmerProfile is the 1:1 detail record for farmer accounts.
type FarmerProfile struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FarmName          string              `gorm:"column:farm_name;not null;default:''"`
	FarmSize          *decimal.Decimal    `gorm:"column:farm_size;type:numeric(10,2)"`
	Location          string              `gorm:"not null;default:''"`
	Region            string              `gorm:"not null;default:''"`
	CropsGrown        string              `gorm:"column:crops_grown;not null;default:''"`
	FarmingMethod     enums.FarmingMethod `gorm:"column:farming_method;type:text;not null;default:'conventional'"`
	YearsOfExperience *int                `gorm:"column:years_of_experience"`
}
