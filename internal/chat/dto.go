package chat

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
)

// SendRequest is the payload for one chat turn.
type SendRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// SendResponse carries the model reply and the session it belongs to.
type SendResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// SessionDTO is one entry of the session listing.
type SessionDTO struct {
	SessionID    string    `json:"session_id"`
	MessageCount int64     `json:"message_count"`
	LastMessage  string    `json:"last_message"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MessageDTO is one transcript entry.
type MessageDTO struct {
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse is the ordered transcript of one session.
type HistoryResponse struct {
	SessionID string       `json:"session_id"`
	Messages  []MessageDTO `json:"messages"`
}

const lastMessagePreviewLen = 100

func toSessionDTO(summary SessionSummary) SessionDTO {
	preview := summary.LastMessage
	if runes := []rune(preview); len(runes) > lastMessagePreviewLen {
		preview = string(runes[:lastMessagePreviewLen]) + "..."
	}
	return SessionDTO{
		SessionID:    summary.SessionID,
		MessageCount: summary.MessageCount,
		LastMessage:  preview,
		CreatedAt:    summary.CreatedAt,
		UpdatedAt:    summary.UpdatedAt,
	}
}

func toMessageDTO(m *models.ChatMessage) MessageDTO {
	return MessageDTO{
		Role:      m.Role.String(),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
