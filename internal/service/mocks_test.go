package service

import (
	"context"
	"io"
	"time"

	"ransomsim/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if conv := args.Get(0); conv != nil {
		return conv.(*models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetMessages(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	args := m.Called(ctx, conversationID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetMessagesAfter(ctx context.Context, conversationID string, afterID int64) ([]models.ChatMessage, error) {
	args := m.Called(ctx, conversationID, afterID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) HasGangMessage(ctx context.Context, conversationID string) (bool, error) {
	args := m.Called(ctx, conversationID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *mockAdminStore) ListConversationSummaries(ctx context.Context) ([]models.ConversationSummary, error) {
	args := m.Called(ctx)
	if summaries := args.Get(0); summaries != nil {
		return summaries.([]models.ConversationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminStore) SetAutoRespond(ctx context.Context, id string, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *mockAdminStore) SetDeadline(ctx context.Context, id string, deadline *time.Time) error {
	args := m.Called(ctx, id, deadline)
	return args.Error(0)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) ScheduleReply(conversationID, text string) {
	m.Called(conversationID, text)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func activeConversation(id string) *models.Conversation {
	return &models.Conversation{
		ID:           id,
		Name:         "Test Victim Corp",
		DemandAmount: 500000,
		AutoRespond:  true,
		Locale:       models.LocaleUK,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
