package profiles

import (
	"context"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the per-user-type profile rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateFarmerProfile inserts the farmer profile row for a new user.
func (r *Repository) CreateFarmerProfile(ctx context.Context, profile *models.FarmerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreateExtensionWorkerProfile inserts the extension worker profile row.
func (r *Repository) CreateExtensionWorkerProfile(ctx context.Context, profile *models.ExtensionWorkerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindFarmerProfile loads the farmer profile for the given user.
func (r *Repository) FindFarmerProfile(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindExtensionWorkerProfile loads the extension worker profile for the given user.
func (r *Repository) FindExtensionWorkerProfile(ctx context.Context, userID uuid.UUID) (*models.ExtensionWorkerProfile, error) {
	var profile models.ExtensionWorkerProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateFarmerProfile applies a partial update to the farmer profile row.
func (r *Repository) UpdateFarmerProfile(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.FarmerProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

// UpdateExtensionWorkerProfile applies a partial update to the worker profile row.
func (r *Repository) UpdateExtensionWorkerProfile(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ExtensionWorkerProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}
