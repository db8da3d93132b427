package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession groups the ordered transcript of one conversation. Clearing a
// session flips IsActive off without touching the transcript; deleting it
// cascades to the messages.
type ChatSession struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	SessionID string    `gorm:"column:session_id;not null;uniqueIndex"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime;index"`
}
