package models

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
)

// ChatMessage is one append-only transcript entry. Conversation order is
// (created_at, id).
type ChatMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID uuid.UUID      `gorm:"column:session_id;type:uuid;not null;index"`
	Role      enums.ChatRole `gorm:"type:text;not null"`
	Message   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index"`
}
