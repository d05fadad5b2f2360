package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ransomsim/internal/migrations"
	"ransomsim/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the durable conversation store: one mutable record per
// conversation plus an append-only message log.
type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("invalid database path")
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(migrations.InitialSchema()); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	enc, err := newEncryptor()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize encryptor: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: enc}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Conversation operations

func (d *Database) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if conv.DemandAmount <= 0 {
		return fmt.Errorf("demand amount must be positive")
	}
	if !models.ValidLocale(conv.Locale) {
		return fmt.Errorf("unsupported locale: %s", conv.Locale)
	}

	_, err := d.db.ExecContext(ctx, insertConversationQuery,
		conv.ID, conv.Name, conv.DemandAmount, conv.Deadline, conv.AutoRespond, conv.Locale)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// GetConversation returns the record for id, or nil when it does not
// exist.
func (d *Database) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	var deadline sql.NullTime
	var autoRespond int

	err := d.db.QueryRowContext(ctx, selectConversationQuery, id).Scan(
		&conv.ID,
		&conv.Name,
		&conv.DemandAmount,
		&deadline,
		&autoRespond,
		&conv.Locale,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if deadline.Valid {
		t := deadline.Time
		conv.Deadline = &t
	}
	conv.AutoRespond = autoRespond != 0

	return conv, nil
}

// ListConversationSummaries returns all conversations with aggregate
// message activity, most recently active first.
func (d *Database) ListConversationSummaries(ctx context.Context) ([]models.ConversationSummary, error) {
	rows, err := d.db.QueryContext(ctx, selectConversationSummariesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []models.ConversationSummary
	for rows.Next() {
		var s models.ConversationSummary
		var autoRespond int
		var last sql.NullTime

		if err := rows.Scan(&s.ID, &s.Name, &s.DemandAmount, &autoRespond, &s.MessageCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan conversation summary: %w", err)
		}

		s.AutoRespond = autoRespond != 0
		if last.Valid {
			t := last.Time
			s.LastMessageAt = &t
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation summaries: %w", err)
	}

	return summaries, nil
}

func (d *Database) SetAutoRespond(ctx context.Context, id string, enabled bool) error {
	result, err := d.db.ExecContext(ctx, updateAutoRespondQuery, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to update auto-respond: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no conversation found with ID: %s", id)
	}

	return nil
}

// SetDeadline replaces the conversation deadline; nil clears it.
func (d *Database) SetDeadline(ctx context.Context, id string, deadline *time.Time) error {
	result, err := d.db.ExecContext(ctx, updateDeadlineQuery, deadline, id)
	if err != nil {
		return fmt.Errorf("failed to update deadline: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no conversation found with ID: %s", id)
	}

	return nil
}
