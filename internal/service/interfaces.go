package service

import (
	"context"
	"time"

	"ransomsim/internal/models"
)

// ConversationStore is the narrow view of the database the negotiation
// core needs. The engine only ever reads; the responder appends.
type ConversationStore interface {
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	GetMessages(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
	GetMessagesAfter(ctx context.Context, conversationID string, afterID int64) ([]models.ChatMessage, error)
	HasGangMessage(ctx context.Context, conversationID string) (bool, error)
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
}

// AdminStore is the mutation surface used by the admin collaborator.
type AdminStore interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	ListConversationSummaries(ctx context.Context) ([]models.ConversationSummary, error)
	SetAutoRespond(ctx context.Context, id string, enabled bool) error
	SetDeadline(ctx context.Context, id string, deadline *time.Time) error
}
