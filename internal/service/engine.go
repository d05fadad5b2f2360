package service

import (
	"context"

	"ransomsim/internal/errors"
	"ransomsim/internal/intent"
	"ransomsim/internal/metrics"
	"ransomsim/internal/respond"

	"github.com/sirupsen/logrus"
)

// Engine decides what the automated side says. It is a pure read of
// store state: no appends, no timers. The responder owns delivery.
type Engine struct {
	store      ConversationStore
	classifier intent.Classifier
	logger     *logrus.Logger
}

func NewEngine(store ConversationStore, classifier intent.Classifier, logger *logrus.Logger) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		logger:     logger,
	}
}

// HandleInbound computes the scripted reply for one victim message.
// It returns ("", nil) when auto-respond is disabled for the
// conversation, and NOT_FOUND when the conversation does not exist.
// The record is read fresh on every call so edits made between the
// victim's message and the delayed composition are reflected.
func (e *Engine) HandleInbound(ctx context.Context, conversationID, text string) (string, error) {
	rec, err := e.store.GetConversation(ctx, conversationID)
	if err != nil {
		return "", errors.NewDatabaseError("get conversation", err)
	}
	if rec == nil {
		return "", errors.NewNotFoundError("conversation", conversationID)
	}

	if !rec.AutoRespond {
		e.logger.WithField("conversation_id", conversationID).Debug("Auto-respond disabled, no reply")
		return "", nil
	}

	hasSpoken, err := e.store.HasGangMessage(ctx, conversationID)
	if err != nil {
		return "", errors.NewDatabaseError("check gang messages", err)
	}
	firstContact := !hasSpoken

	category, matched := e.classifier.Classify(text)
	if matched {
		metrics.IncrementCounter("intent_classifications_total",
			map[string]string{"intent": category.String()}, "Victim messages by classified intent")
	} else {
		metrics.IncrementCounter("intent_unmatched_total", nil, "Victim messages with no intent match")
	}

	entry := e.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"first_contact":   firstContact,
	})
	if matched {
		entry = entry.WithField("intent", category.String())
	}
	entry.Debug("Composed automated reply")

	return respond.Compose(category, matched, rec, firstContact), nil
}
