package models

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
)

// Tutorial is an uploaded educational video. ViewCount is only ever mutated
// through an atomic SQL increment.
type Tutorial struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UploaderID   uuid.UUID              `gorm:"column:uploader_id;type:uuid;not null;index"`
	Title        string                 `gorm:"not null"`
	Description  string                 `gorm:"type:text;not null"`
	Category     enums.TutorialCategory `gorm:"type:text;not null;default:'other';index"`
	VideoKey     string                 `gorm:"column:video_key;not null"`
	ThumbnailKey *string                `gorm:"column:thumbnail_key"`
	ViewCount    int64                  `gorm:"column:view_count;not null;default:0"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime;index:idx_tutorials_created_at,sort:desc"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Uploader *User `gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE"`
}
