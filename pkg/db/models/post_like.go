package models

import (
	"time"

	"github.com/google/uuid"
)

// PostLike marks that a user likes a post. The (user, post) unique constraint
// is what makes the like toggle safe under concurrent requests.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uidx_post_likes_user_post"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:uidx_post_likes_user_post;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
