package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceSetAndClear(t *testing.T) {
	tracker := NewPresenceTracker()

	assert.False(t, tracker.IsTyping("conv-1"))

	tracker.Set("conv-1")
	assert.True(t, tracker.IsTyping("conv-1"))
	assert.False(t, tracker.IsTyping("conv-2"))

	tracker.Clear("conv-1")
	assert.False(t, tracker.IsTyping("conv-1"))
}

func TestPresenceNestedMarks(t *testing.T) {
	tracker := NewPresenceTracker()

	tracker.Set("conv-1")
	tracker.Set("conv-1")

	tracker.Clear("conv-1")
	assert.True(t, tracker.IsTyping("conv-1"), "one mark should still be held")

	tracker.Clear("conv-1")
	assert.False(t, tracker.IsTyping("conv-1"))
}

func TestPresenceClearWithoutSet(t *testing.T) {
	tracker := NewPresenceTracker()

	tracker.Clear("conv-1")
	assert.False(t, tracker.IsTyping("conv-1"))

	// An unmatched clear must not drive the count negative
	tracker.Set("conv-1")
	assert.True(t, tracker.IsTyping("conv-1"))
}

func TestPresenceIndependentConversations(t *testing.T) {
	tracker := NewPresenceTracker()

	tracker.Set("conv-a")
	tracker.Set("conv-b")
	tracker.Clear("conv-a")

	assert.False(t, tracker.IsTyping("conv-a"))
	assert.True(t, tracker.IsTyping("conv-b"))
}

func TestPresenceConcurrentAccess(t *testing.T) {
	tracker := NewPresenceTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Set("conv-1")
			tracker.IsTyping("conv-1")
			tracker.Clear("conv-1")
		}()
	}
	wg.Wait()

	assert.False(t, tracker.IsTyping("conv-1"))
}
