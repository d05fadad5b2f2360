package database

// Conversation queries
const (
	insertConversationQuery = `
		INSERT INTO conversations (id, name, demand_amount, deadline, auto_respond, locale)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectConversationQuery = `
		SELECT id, name, demand_amount, deadline, auto_respond, locale, created_at, updated_at
		FROM conversations
		WHERE id = ?
	`

	selectConversationSummariesQuery = `
		SELECT c.id, c.name, c.demand_amount, c.auto_respond,
		       COUNT(m.id), MAX(m.created_at)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id, c.name, c.demand_amount, c.auto_respond
		ORDER BY MAX(m.created_at) DESC
	`

	updateAutoRespondQuery = `
		UPDATE conversations
		SET auto_respond = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	updateDeadlineQuery = `
		UPDATE conversations
		SET deadline = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
)

// Message queries
const (
	insertMessageQuery = `
		INSERT INTO messages (conversation_id, sender, body)
		VALUES (?, ?, ?)
	`

	selectMessagesQuery = `
		SELECT id, conversation_id, sender, body, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`

	selectMessagesAfterQuery = `
		SELECT id, conversation_id, sender, body, created_at
		FROM messages
		WHERE conversation_id = ? AND id > ?
		ORDER BY created_at ASC, id ASC
	`

	selectHasGangMessageQuery = `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE conversation_id = ? AND sender = ?
		)
	`

	deleteOldMessagesQuery = `
		DELETE FROM messages
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)
