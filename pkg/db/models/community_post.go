package models

import (
	"time"

	dbtypes "github.com/bernardo0921/AgriGuide-Backend/pkg/db/types"
	"github.com/google/uuid"
)

// CommunityPost is a feed entry. Like and comment counts are always derived
// from the related rows at read time, never stored on the post.
type CommunityPost struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID  uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	Content   string              `gorm:"type:text;not null"`
	ImageKey  *string             `gorm:"column:image_key"`
	Tags      dbtypes.StringArray `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime;index:idx_community_posts_created_at,sort:desc"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
