package database

import (
	"context"
	"fmt"

	"ransomsim/internal/models"
)

// SaveMessage appends one message to the conversation log. The store
// assigns the id and timestamp; both are written back into msg.
func (d *Database) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.Body == "" {
		return fmt.Errorf("message body must not be empty")
	}
	if msg.Sender != models.SenderVictim && msg.Sender != models.SenderGang {
		return fmt.Errorf("invalid sender: %s", msg.Sender)
	}

	encryptedBody, err := d.encryptor.encrypt(msg.Body)
	if err != nil {
		return fmt.Errorf("failed to encrypt message body: %w", err)
	}

	return withBusyRetry(ctx, "save message", func() error {
		result, err := d.db.ExecContext(ctx, insertMessageQuery,
			msg.ConversationID, msg.Sender, encryptedBody)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get message id: %w", err)
		}
		msg.ID = id

		row := d.db.QueryRowContext(ctx, `SELECT created_at FROM messages WHERE id = ?`, id)
		if err := row.Scan(&msg.CreatedAt); err != nil {
			return fmt.Errorf("failed to read message timestamp: %w", err)
		}

		return nil
	})
}

// GetMessages returns the full log for a conversation in creation
// order.
func (d *Database) GetMessages(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	return d.queryMessages(ctx, selectMessagesQuery, conversationID)
}

// GetMessagesAfter returns messages appended after the given message
// id, in creation order. Used by the live event stream.
func (d *Database) GetMessagesAfter(ctx context.Context, conversationID string, afterID int64) ([]models.ChatMessage, error) {
	return d.queryMessages(ctx, selectMessagesAfterQuery, conversationID, afterID)
}

func (d *Database) queryMessages(ctx context.Context, query string, args ...interface{}) ([]models.ChatMessage, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Body, err = d.encryptor.decrypt(msg.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt message body: %w", err)
		}

		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// HasGangMessage reports whether the automated side has ever spoken in
// this conversation. Before that, every inbound message is first
// contact.
func (d *Database) HasGangMessage(ctx context.Context, conversationID string) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, selectHasGangMessageQuery, conversationID, models.SenderGang).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check gang messages: %w", err)
	}
	return exists, nil
}

// CleanupOldMessages deletes log entries older than the retention
// window.
func (d *Database) CleanupOldMessages(ctx context.Context, retentionDays int) error {
	_, err := d.db.ExecContext(ctx, deleteOldMessagesQuery, retentionDays)
	if err != nil {
		return fmt.Errorf("failed to cleanup old messages: %w", err)
	}
	return nil
}
