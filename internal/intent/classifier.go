package intent

import "strings"

// Category is one of the fixed negotiation intent buckets. The zero
// value is only meaningful together with a false match flag.
type Category int

const (
	CategoryProof Category = iota
	CategoryPayment
	CategoryNegotiate
	CategoryDeadline
	CategoryLaw
	CategoryContact
	CategoryRecovery
	CategoryPublish
	CategoryThreat
)

func (c Category) String() string {
	switch c {
	case CategoryProof:
		return "proof"
	case CategoryPayment:
		return "payment"
	case CategoryNegotiate:
		return "negotiate"
	case CategoryDeadline:
		return "deadline"
	case CategoryLaw:
		return "law"
	case CategoryContact:
		return "contact"
	case CategoryRecovery:
		return "recovery"
	case CategoryPublish:
		return "publish"
	case CategoryThreat:
		return "threat"
	}
	return "unknown"
}

// triggerSet binds a category to its trigger substrings. The slice
// order below is the classification priority order and is part of the
// observable contract: when a message matches several categories, the
// first one listed wins. Do not reorder.
type triggerSet struct {
	category Category
	triggers []string
}

var triggerSets = []triggerSet{
	{CategoryProof, []string{"proof", "sample", "decrypt", "demonstration", "evidence", "verify"}},
	{CategoryPayment, []string{"bitcoin", "crypto", "cryptocurrency", "payment", "transfer", "wallet", "monero"}},
	{CategoryNegotiate, []string{"price", "discount", "lower", "negotiate", "offer", "counter", "amount", "expensive"}},
	{CategoryDeadline, []string{"deadline", "extension", "time", "delay", "postpone", "extend"}},
	{CategoryLaw, []string{"police", "law", "authority", "court", "legal", "fbi", "interpol"}},
	{CategoryContact, []string{"contact", "phone", "email", "message", "reach", "communicate"}},
	{CategoryRecovery, []string{"recover", "restore", "backup", "recovery", "decryption tool"}},
	{CategoryPublish, []string{"publish", "release", "leak", "expose", "public", "media"}},
	{CategoryThreat, []string{"threat", "report", "authorities", "shut down", "stop", "compliance"}},
}

// Classifier maps free-form victim text to a negotiation intent. The
// substring-containment strategy is deliberate and matches the scripted
// response families; callers dispatch on the Category only, so the
// matching strategy can change without touching them.
type Classifier interface {
	Classify(text string) (Category, bool)
}

type keywordClassifier struct{}

// NewClassifier returns the keyword-based classifier.
func NewClassifier() Classifier {
	return keywordClassifier{}
}

// Classify returns the first category in priority order whose trigger
// set has a substring match against the normalized text. It never
// fails: empty or unmatched input returns (0, false).
func (keywordClassifier) Classify(text string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0, false
	}

	for _, set := range triggerSets {
		for _, trigger := range set.triggers {
			if strings.Contains(normalized, trigger) {
				return set.category, true
			}
		}
	}

	return 0, false
}
