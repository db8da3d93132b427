package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionNotFoundMsg = "session not found or access denied"

type chatRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error)
	FindSession(ctx context.Context, sessionID string, userID uuid.UUID) (*models.ChatSession, error)
	ListSessionSummaries(ctx context.Context, userID uuid.UUID) ([]SessionSummary, error)
	ListMessages(ctx context.Context, sessionPK uuid.UUID) ([]models.ChatMessage, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error)
	TouchSession(ctx context.Context, sessionPK uuid.UUID, at time.Time) error
	DeactivateSession(ctx context.Context, sessionPK uuid.UUID) error
	DeleteSession(ctx context.Context, sessionPK uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type generator interface {
	GenerateContent(ctx context.Context, systemInstruction string, turns []gemini.Turn) (string, error)
}

// Service exposes the AI chat operations.
type Service interface {
	SendTurn(ctx context.Context, userID uuid.UUID, req SendRequest) (*SendResponse, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]SessionDTO, error)
	History(ctx context.Context, userID uuid.UUID, sessionID string) (*HistoryResponse, error)
	Clear(ctx context.Context, userID uuid.UUID, sessionID string) error
	Delete(ctx context.Context, userID uuid.UUID, sessionID string) error
}

// ServiceParams packages the dependencies for the chat service. RepoFactory
// binds a repository to the append transaction; Repo serves everything else.
type ServiceParams struct {
	Repo        chatRepository
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) chatRepository
	Generator   generator
	Now         func() time.Time
}

type service struct {
	repo      chatRepository
	tx        txRunner
	repos     func(tx *gorm.DB) chatRepository
	generator generator
	now       func() time.Time
}

// NewService builds a chat service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "chat repository required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "generator required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) chatRepository {
			return NewRepository(tx)
		}
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:      params.Repo,
		tx:        params.TxRunner,
		repos:     factory,
		generator: params.Generator,
		now:       now,
	}, nil
}

func (s *service) SendTurn(ctx context.Context, userID uuid.UUID, req SendRequest) (*SendResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	var session *models.ChatSession
	if strings.TrimSpace(req.SessionID) != "" {
		found, err := s.findSession(ctx, userID, req.SessionID)
		if err != nil {
			return nil, err
		}
		session = found
	} else {
		created, err := s.repo.CreateSession(ctx, &models.ChatSession{
			UserID:    userID,
			SessionID: uuid.NewString(),
			IsActive:  true,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
		}
		session = created
	}

	history, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load history")
	}

	turns := make([]gemini.Turn, 0, len(history)+1)
	for i := range history {
		turns = append(turns, gemini.Turn{Role: history[i].Role.String(), Text: history[i].Message})
	}
	turns = append(turns, gemini.Turn{Role: gemini.RoleUser, Text: message})

	reply, err := s.generator.GenerateContent(ctx, systemInstruction, turns)
	if err != nil {
		return nil, err
	}

	// The user and model messages land together or not at all, so a reader
	// never observes an odd message count mid-turn.
	turnAt := s.now()
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repos(tx)
		if _, err := repo.CreateMessage(ctx, &models.ChatMessage{
			SessionID: session.ID,
			Role:      enums.ChatRoleUser,
			Message:   message,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append user message")
		}
		if _, err := repo.CreateMessage(ctx, &models.ChatMessage{
			SessionID: session.ID,
			Role:      enums.ChatRoleModel,
			Message:   reply,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append model message")
		}
		if err := repo.TouchSession(ctx, session.ID, turnAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch session")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &SendResponse{Reply: reply, SessionID: session.SessionID}, nil
}

func (s *service) ListSessions(ctx context.Context, userID uuid.UUID) ([]SessionDTO, error) {
	summaries, err := s.repo.ListSessionSummaries(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sessions")
	}
	items := make([]SessionDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toSessionDTO(summary))
	}
	return items, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, sessionID string) (*HistoryResponse, error) {
	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load history")
	}
	items := make([]MessageDTO, 0, len(messages))
	for i := range messages {
		items = append(items, toMessageDTO(&messages[i]))
	}
	return &HistoryResponse{SessionID: session.SessionID, Messages: items}, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID, sessionID string) error {
	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivateSession(ctx, session.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, sessionID string) error {
	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete session")
	}
	return nil
}

func (s *service) findSession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.ChatSession, error) {
	session, err := s.repo.FindSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, sessionNotFoundMsg)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find session")
	}
	return session, nil
}
