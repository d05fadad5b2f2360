package service

import "sync"

// PresenceTracker holds the ephemeral "gang is typing" state per
// conversation. It is process-local and never persisted: losing it on
// a crash at worst leaves a stale indicator, not a correctness
// problem. Operations are per-key; concurrent replies for different
// conversations never contend beyond the map lock.
type PresenceTracker struct {
	mu     sync.RWMutex
	typing map[string]int
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		typing: make(map[string]int),
	}
}

// Set marks the conversation as composing. Calls nest: two in-flight
// replies for the same conversation require two Clears.
func (p *PresenceTracker) Set(conversationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typing[conversationID]++
}

// Clear releases one composing mark for the conversation.
func (p *PresenceTracker) Clear(conversationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if count, ok := p.typing[conversationID]; ok {
		if count <= 1 {
			delete(p.typing, conversationID)
		} else {
			p.typing[conversationID] = count - 1
		}
	}
}

// IsTyping reports whether a reply is currently being composed for the
// conversation.
func (p *PresenceTracker) IsTyping(conversationID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.typing[conversationID] > 0
}
