package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SingleTriggers(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		text string
		want Category
	}{
		{"proof", "can you give me proof this is real?", CategoryProof},
		{"payment", "how do I buy bitcoin", CategoryPayment},
		{"negotiate", "I want to negotiate a lower price", CategoryNegotiate},
		{"deadline", "we need an extension", CategoryDeadline},
		{"law", "the police are involved now", CategoryLaw},
		{"contact", "is there a phone number", CategoryContact},
		{"recovery", "we will restore from our own systems", CategoryRecovery},
		{"publish", "please do not leak anything", CategoryPublish},
		{"threat", "we will report you", CategoryThreat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := NewClassifier()

	// proof outranks law even when both trigger sets match
	got, ok := c.Classify("the police want proof before they act")
	require.True(t, ok)
	assert.Equal(t, CategoryProof, got)

	// payment outranks negotiate
	got, ok = c.Classify("what bitcoin price are we talking about")
	require.True(t, ok)
	assert.Equal(t, CategoryPayment, got)

	// negotiate outranks threat
	got, ok = c.Classify("stop this, we can discuss the amount")
	require.True(t, ok)
	assert.Equal(t, CategoryNegotiate, got)
}

func TestClassify_CaseAndWhitespace(t *testing.T) {
	c := NewClassifier()

	got, ok := c.Classify("   PROOF PLEASE   ")
	require.True(t, ok)
	assert.Equal(t, CategoryProof, got)

	got, ok = c.Classify("DeCrypt a SaMpLe")
	require.True(t, ok)
	assert.Equal(t, CategoryProof, got)
}

func TestClassify_SubstringContainment(t *testing.T) {
	c := NewClassifier()

	// "lawyer" contains "law"; containment, not word matching
	got, ok := c.Classify("our lawyer says hello")
	require.True(t, ok)
	assert.Equal(t, CategoryLaw, got)
}

func TestClassify_NoMatch(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{
		"",
		"   ",
		"hello there",
		"¿qué está pasando aquí?",
		strings.Repeat("x", 100000),
	} {
		_, ok := c.Classify(text)
		assert.False(t, ok, "text %q should not match", text)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewClassifier()

	text := "police and proof and bitcoin"
	first, ok1 := c.Classify(text)
	second, ok2 := c.Classify(text)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "proof", CategoryProof.String())
	assert.Equal(t, "threat", CategoryThreat.String())
	assert.Equal(t, "unknown", Category(99).String())
}
