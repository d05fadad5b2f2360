package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ransomsim/internal/constants"
	"ransomsim/internal/errors"
	"ransomsim/internal/metrics"
	"ransomsim/internal/models"
	"ransomsim/internal/tracing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// scheduler is the slice of the responder the chat service needs.
type scheduler interface {
	ScheduleReply(conversationID, text string)
}

// ChatService is the surface consumed by the HTTP handlers: the victim
// chat operations plus the admin mutations.
type ChatService interface {
	SubmitVictimMessage(ctx context.Context, conversationID, body string) (*models.ChatMessage, error)
	GetHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
	GetHistoryAfter(ctx context.Context, conversationID string, afterID int64) ([]models.ChatMessage, error)
	IsTyping(conversationID string) bool

	CreateConversation(ctx context.Context, params CreateConversationParams) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]models.ConversationSummary, error)
	UpdateConversation(ctx context.Context, id string, params UpdateConversationParams) error
}

// CreateConversationParams carries the admin create request. ID is
// optional; a UUID is minted when absent.
type CreateConversationParams struct {
	ID           string
	Name         string
	DemandAmount int64
	Deadline     *time.Time
	AutoRespond  bool
	Locale       models.Locale
}

// UpdateConversationParams carries the admin patch request. Nil fields
// are left untouched; SetDeadline distinguishes "clear" from "keep".
type UpdateConversationParams struct {
	AutoRespond   *bool
	Deadline      *time.Time
	ClearDeadline bool
}

type chatService struct {
	store     ConversationStore
	admin     AdminStore
	presence  *PresenceTracker
	responder scheduler
	logger    *logrus.Logger
}

func NewChatService(store ConversationStore, admin AdminStore, presence *PresenceTracker, responder scheduler, logger *logrus.Logger) ChatService {
	return &chatService{
		store:     store,
		admin:     admin,
		presence:  presence,
		responder: responder,
		logger:    logger,
	}
}

// SubmitVictimMessage appends the victim's message and, when
// auto-respond is enabled, schedules the delayed gang reply. The
// victim append is durable before any scheduling happens, so a reader
// always sees the trigger no later than the reply. Responder problems
// never fail the victim's own delivery.
func (s *chatService) SubmitVictimMessage(ctx context.Context, conversationID, body string) (*models.ChatMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "chat.submit",
		attribute.String("conversation.id", conversationID),
	)
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewValidationError("body", "message body must not be empty")
	}
	if len(body) > constants.MaxMessageBodyLength {
		return nil, errors.NewValidationError("body",
			fmt.Sprintf("message body must not exceed %d characters", constants.MaxMessageBodyLength))
	}

	rec, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("conversation", conversationID)
	}

	msg := &models.ChatMessage{
		ConversationID: conversationID,
		Sender:         models.SenderVictim,
		Body:           body,
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.NewDatabaseError("save message", err)
	}

	metrics.IncrementCounter("victim_messages_total", nil, "Victim messages received")

	if rec.AutoRespond {
		s.responder.ScheduleReply(conversationID, body)
	}

	return msg, nil
}

func (s *chatService) GetHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	rec, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("conversation", conversationID)
	}

	messages, err := s.store.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, errors.NewDatabaseError("get messages", err)
	}
	return messages, nil
}

func (s *chatService) GetHistoryAfter(ctx context.Context, conversationID string, afterID int64) ([]models.ChatMessage, error) {
	rec, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("conversation", conversationID)
	}

	messages, err := s.store.GetMessagesAfter(ctx, conversationID, afterID)
	if err != nil {
		return nil, errors.NewDatabaseError("get messages", err)
	}
	return messages, nil
}

func (s *chatService) IsTyping(conversationID string) bool {
	return s.presence.IsTyping(conversationID)
}

func (s *chatService) CreateConversation(ctx context.Context, params CreateConversationParams) (*models.Conversation, error) {
	if params.DemandAmount <= 0 {
		return nil, errors.NewValidationError("demandAmount", "demand amount must be positive")
	}
	if len(params.ID) > constants.MaxConversationIDLength {
		return nil, errors.NewValidationError("id",
			fmt.Sprintf("conversation ID must not exceed %d characters", constants.MaxConversationIDLength))
	}

	locale := params.Locale
	if locale == "" {
		locale = models.LocaleUK
	}
	if !models.ValidLocale(locale) {
		return nil, errors.NewValidationError("locale", "unsupported locale")
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	conv := &models.Conversation{
		ID:           id,
		Name:         params.Name,
		DemandAmount: params.DemandAmount,
		Deadline:     params.Deadline,
		AutoRespond:  params.AutoRespond,
		Locale:       locale,
	}

	if err := s.admin.CreateConversation(ctx, conv); err != nil {
		return nil, errors.NewDatabaseError("create conversation", err)
	}

	s.logger.WithFields(logrus.Fields{
		"conversation_id": conv.ID,
		"demand_amount":   conv.DemandAmount,
	}).Info("Conversation created")

	return conv, nil
}

func (s *chatService) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	rec, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("conversation", id)
	}
	return rec, nil
}

func (s *chatService) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	summaries, err := s.admin.ListConversationSummaries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list conversations", err)
	}
	return summaries, nil
}

func (s *chatService) UpdateConversation(ctx context.Context, id string, params UpdateConversationParams) error {
	rec, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return errors.NewNotFoundError("conversation", id)
	}

	if params.AutoRespond != nil {
		if err := s.admin.SetAutoRespond(ctx, id, *params.AutoRespond); err != nil {
			return errors.NewDatabaseError("set auto-respond", err)
		}
	}

	if params.ClearDeadline {
		if err := s.admin.SetDeadline(ctx, id, nil); err != nil {
			return errors.NewDatabaseError("clear deadline", err)
		}
	} else if params.Deadline != nil {
		if err := s.admin.SetDeadline(ctx, id, params.Deadline); err != nil {
			return errors.NewDatabaseError("set deadline", err)
		}
	}

	return nil
}
