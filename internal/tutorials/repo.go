package tutorials

import (
	"context"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes tutorial persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tutorial repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a tutorial row.
func (r *Repository) Create(ctx context.Context, tutorial *models.Tutorial) (*models.Tutorial, error) {
	if err := r.db.WithContext(ctx).Create(tutorial).Error; err != nil {
		return nil, err
	}
	return tutorial, nil
}

// FindByID loads a tutorial with its uploader preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tutorial, error) {
	var tutorial models.Tutorial
	if err := r.db.WithContext(ctx).Preload("Uploader").First(&tutorial, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tutorial, nil
}

// List returns tutorials newest first using cursor pagination.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Tutorial, error) {
	query := r.db.WithContext(ctx).Model(&models.Tutorial{}).Preload("Uploader")

	if opts.uploaderID != nil {
		query = query.Where("uploader_id = ?", *opts.uploaderID)
	}
	if opts.category != nil {
		query = query.Where("category = ?", *opts.category)
	}
	if search := strings.TrimSpace(opts.search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Tutorial
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies partial column updates to a tutorial.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes a tutorial row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Tutorial{}, "id = ?", id).Error
}

// IncrementViews bumps the view counter in a single SQL statement so
// concurrent views never lose updates.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CategoryFilter parses client category input. Empty, "all", and "none"
// disable the filter.
func CategoryFilter(value string) (*enums.TutorialCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" || normalized == "all" || normalized == "none" {
		return nil, nil
	}
	category, err := enums.ParseTutorialCategory(normalized)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
