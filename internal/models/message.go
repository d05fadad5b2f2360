package models

import "time"

// Sender identifies which side of a conversation wrote a message.
// There are exactly two: the victim and the automated gang side.
type Sender string

const (
	SenderVictim Sender = "victim"
	SenderGang   Sender = "gang"
)

// ChatMessage is one entry in a conversation's append-only log.
// Messages are never edited or reordered; CreatedAt is store-assigned
// and retrieval order is creation order with ID as the tiebreaker.
type ChatMessage struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	Sender         Sender    `json:"sender" db:"sender"`
	Body           string    `json:"body" db:"body"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
