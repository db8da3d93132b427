package chat

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubChatRepo struct {
	sessions map[uuid.UUID]*models.ChatSession
	messages []*models.ChatMessage
	touched  []uuid.UUID
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{sessions: make(map[uuid.UUID]*models.ChatSession)}
}

func (s *stubChatRepo) CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubChatRepo) FindSession(ctx context.Context, sessionID string, userID uuid.UUID) (*models.ChatSession, error) {
	for _, session := range s.sessions {
		if session.SessionID == sessionID && session.UserID == userID {
			return session, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubChatRepo) ListSessionSummaries(ctx context.Context, userID uuid.UUID) ([]SessionSummary, error) {
	var rows []SessionSummary
	for _, session := range s.sessions {
		if session.UserID != userID || !session.IsActive {
			continue
		}
		summary := SessionSummary{ChatSession: *session}
		for _, m := range s.messages {
			if m.SessionID == session.ID {
				summary.MessageCount++
				summary.LastMessage = m.Message
			}
		}
		rows = append(rows, summary)
	}
	return rows, nil
}

func (s *stubChatRepo) ListMessages(ctx context.Context, sessionPK uuid.UUID) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	for _, m := range s.messages {
		if m.SessionID == sessionPK {
			rows = append(rows, *m)
		}
	}
	return rows, nil
}

func (s *stubChatRepo) CreateMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *stubChatRepo) TouchSession(ctx context.Context, sessionPK uuid.UUID, at time.Time) error {
	s.touched = append(s.touched, sessionPK)
	if session, ok := s.sessions[sessionPK]; ok {
		session.UpdatedAt = at
	}
	return nil
}

func (s *stubChatRepo) DeactivateSession(ctx context.Context, sessionPK uuid.UUID) error {
	if session, ok := s.sessions[sessionPK]; ok {
		session.IsActive = false
	}
	return nil
}

func (s *stubChatRepo) DeleteSession(ctx context.Context, sessionPK uuid.UUID) error {
	delete(s.sessions, sessionPK)
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.SessionID != sessionPK {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

type stubChatTxRunner struct{}

func (stubChatTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubGenerator struct {
	reply       string
	err         error
	gotSystem   string
	gotTurns    []gemini.Turn
	invocations int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, system string, turns []gemini.Turn) (string, error) {
	s.invocations++
	s.gotSystem = system
	s.gotTurns = turns
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func buildChatService(t *testing.T, repo *stubChatRepo, gen *stubGenerator) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		TxRunner:    stubChatTxRunner{},
		RepoFactory: func(tx *gorm.DB) chatRepository { return repo },
		Generator:   gen,
		Now:         func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func seedSession(repo *stubChatRepo, userID uuid.UUID) *models.ChatSession {
	session := &models.ChatSession{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: uuid.NewString(),
		IsActive:  true,
	}
	repo.sessions[session.ID] = session
	return session
}

func TestSendTurnRequiresMessage(t *testing.T) {
	svc := buildChatService(t, newStubChatRepo(), &stubGenerator{reply: "hi"})

	_, err := svc.SendTurn(context.Background(), uuid.New(), SendRequest{Message: "   "})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSendTurnCreatesSessionWhenAbsent(t *testing.T) {
	repo := newStubChatRepo()
	gen := &stubGenerator{reply: "Rotate your maize with legumes."}
	svc := buildChatService(t, repo, gen)
	userID := uuid.New()

	resp, err := svc.SendTurn(context.Background(), userID, SendRequest{Message: "What should I plant after maize?"})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(resp.SessionID)
	assert.NoError(t, parseErr, "new session id must be a uuid")
	assert.Equal(t, "Rotate your maize with legumes.", resp.Reply)

	require.Len(t, repo.messages, 2, "the user and model messages land together")
	assert.Equal(t, enums.ChatRoleUser, repo.messages[0].Role)
	assert.Equal(t, enums.ChatRoleModel, repo.messages[1].Role)
	assert.Len(t, repo.touched, 1)
	assert.Contains(t, gen.gotSystem, "AgriGuide AI")
}

func TestSendTurnReplaysHistoryInOrder(t *testing.T) {
	repo := newStubChatRepo()
	gen := &stubGenerator{reply: "Apply neem oil weekly."}
	svc := buildChatService(t, repo, gen)
	userID := uuid.New()
	session := seedSession(repo, userID)

	repo.messages = append(repo.messages,
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleUser, Message: "My tomatoes have aphids."},
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleModel, Message: "Check the undersides of leaves."},
	)

	_, err := svc.SendTurn(context.Background(), userID, SendRequest{Message: "They are still there.", SessionID: session.SessionID})
	require.NoError(t, err)

	require.Len(t, gen.gotTurns, 3)
	assert.Equal(t, gemini.Turn{Role: "user", Text: "My tomatoes have aphids."}, gen.gotTurns[0])
	assert.Equal(t, gemini.Turn{Role: "model", Text: "Check the undersides of leaves."}, gen.gotTurns[1])
	assert.Equal(t, gemini.Turn{Role: "user", Text: "They are still there."}, gen.gotTurns[2])
}

func TestSendTurnForeignSessionIsOpaque(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	session := seedSession(repo, uuid.New())

	_, err := svc.SendTurn(context.Background(), uuid.New(), SendRequest{Message: "hello", SessionID: session.SessionID})
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, sessionNotFoundMsg, typed.Message())

	_, err = svc.SendTurn(context.Background(), uuid.New(), SendRequest{Message: "hello", SessionID: "no-such-session"})
	assert.Equal(t, sessionNotFoundMsg, pkgerrors.As(err).Message())
}

func TestSendTurnGeneratorFailurePersistsNothing(t *testing.T) {
	repo := newStubChatRepo()
	gen := &stubGenerator{err: pkgerrors.New(pkgerrors.CodeDependency, "gemini unavailable")}
	svc := buildChatService(t, repo, gen)
	userID := uuid.New()
	session := seedSession(repo, userID)

	_, err := svc.SendTurn(context.Background(), userID, SendRequest{Message: "hello", SessionID: session.SessionID})
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Empty(t, repo.messages)
	assert.Empty(t, repo.touched)
}

func TestListSessionsActiveOnly(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	userID := uuid.New()

	active := seedSession(repo, userID)
	cleared := seedSession(repo, userID)
	cleared.IsActive = false
	seedSession(repo, uuid.New())

	repo.messages = append(repo.messages,
		&models.ChatMessage{ID: uuid.New(), SessionID: active.ID, Role: enums.ChatRoleUser, Message: "hi"},
		&models.ChatMessage{ID: uuid.New(), SessionID: active.ID, Role: enums.ChatRoleModel, Message: "hello, how can I help?"},
	)

	sessions, err := svc.ListSessions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, active.SessionID, sessions[0].SessionID)
	assert.Equal(t, int64(2), sessions[0].MessageCount)
	assert.Equal(t, "hello, how can I help?", sessions[0].LastMessage)
}

func TestListSessionsPreviewKeepsRunesIntact(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	userID := uuid.New()
	session := seedSession(repo, userID)

	repo.messages = append(repo.messages, &models.ChatMessage{
		ID:        uuid.New(),
		SessionID: session.ID,
		Role:      enums.ChatRoleModel,
		Message:   strings.Repeat("é", 150),
	})

	sessions, err := svc.ListSessions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	preview := sessions[0].LastMessage
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, 103, utf8.RuneCountInString(preview))
	assert.Equal(t, strings.Repeat("é", 100)+"...", preview)
}

func TestHistoryReturnsOrderedTranscript(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	userID := uuid.New()
	session := seedSession(repo, userID)

	repo.messages = append(repo.messages,
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleUser, Message: "first"},
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleModel, Message: "second"},
	)

	history, err := svc.History(context.Background(), userID, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, history.SessionID)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "user", history.Messages[0].Role)
	assert.Equal(t, "model", history.Messages[1].Role)

	_, err = svc.History(context.Background(), uuid.New(), session.SessionID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClearSoftDeactivates(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	userID := uuid.New()
	session := seedSession(repo, userID)
	repo.messages = append(repo.messages,
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleUser, Message: "keep me"})

	require.NoError(t, svc.Clear(context.Background(), userID, session.SessionID))
	assert.False(t, repo.sessions[session.ID].IsActive)
	assert.Len(t, repo.messages, 1, "clearing keeps the transcript")
}

func TestDeleteRemovesSessionAndMessages(t *testing.T) {
	repo := newStubChatRepo()
	svc := buildChatService(t, repo, &stubGenerator{reply: "x"})
	userID := uuid.New()
	session := seedSession(repo, userID)
	repo.messages = append(repo.messages,
		&models.ChatMessage{ID: uuid.New(), SessionID: session.ID, Role: enums.ChatRoleUser, Message: "bye"})

	require.NoError(t, svc.Delete(context.Background(), userID, session.SessionID))
	assert.Empty(t, repo.sessions)
	assert.Empty(t, repo.messages)
}
