package chat

import (
	"context"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes chat session and message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSession inserts a session row.
func (r *Repository) CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// FindSession loads the caller's session by its public session identifier.
// A foreign user's session surfaces as gorm.ErrRecordNotFound, so existence
// never leaks across accounts.
func (r *Repository) FindSession(ctx context.Context, sessionID string, userID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).
		First(&session, "session_id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	models.ChatSession
	MessageCount int64
	LastMessage  string
}

// ListSessionSummaries returns the caller's active sessions newest-activity
// first, each with its message count and last message preview.
func (r *Repository) ListSessionSummaries(ctx context.Context, userID uuid.UUID) ([]SessionSummary, error) {
	var rows []SessionSummary
	err := r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Select(`chat_sessions.*,
(SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = chat_sessions.id) AS message_count,
COALESCE((SELECT m.message FROM chat_messages m WHERE m.session_id = chat_sessions.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1), '') AS last_message`).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMessages returns the ordered transcript for a session.
func (r *Repository) ListMessages(ctx context.Context, sessionPK uuid.UUID) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionPK).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateMessage appends one transcript entry.
func (r *Repository) CreateMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// TouchSession bumps the session's updated_at so it sorts to the top of the
// listing.
func (r *Repository) TouchSession(ctx context.Context, sessionPK uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", sessionPK).
		Update("updated_at", at).Error
}

// DeactivateSession soft-clears a session. The transcript stays.
func (r *Repository) DeactivateSession(ctx context.Context, sessionPK uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", sessionPK).
		Update("is_active", false).Error
}

// DeleteSession hard-deletes a session and its messages.
func (r *Repository) DeleteSession(ctx context.Context, sessionPK uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionPK).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatSession{}, "id = ?", sessionPK).Error
	})
}
