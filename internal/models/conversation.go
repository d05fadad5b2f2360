package models

import "time"

// Locale identifies the presentation locale assigned to a conversation.
// The set is closed: decorative content generators only exist for these.
type Locale string

const (
	LocaleUK Locale = "UK"
	LocaleFR Locale = "FR"
	LocaleDE Locale = "DE"
)

// ValidLocale reports whether l is one of the supported locales.
func ValidLocale(l Locale) bool {
	switch l {
	case LocaleUK, LocaleFR, LocaleDE:
		return true
	}
	return false
}

// Conversation is the per-victim negotiation record. ID, DemandAmount and
// Locale are immutable after creation; AutoRespond and Deadline may be
// changed by the admin surface between messages.
type Conversation struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	DemandAmount int64      `json:"demandAmount" db:"demand_amount"`
	Deadline     *time.Time `json:"deadline,omitempty" db:"deadline"`
	AutoRespond  bool       `json:"autoRespond" db:"auto_respond"`
	Locale       Locale     `json:"locale" db:"locale"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// ConversationSummary is the admin dashboard row: the record plus
// aggregate message activity.
type ConversationSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	DemandAmount  int64      `json:"demandAmount"`
	AutoRespond   bool       `json:"autoRespond"`
	MessageCount  int64      `json:"messageCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}
