package respond

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"ransomsim/internal/intent"
	"ransomsim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(demand int64, deadline *time.Time) *models.Conversation {
	return &models.Conversation{
		ID:           "acme-corp",
		Name:         "Acme Corp",
		DemandAmount: demand,
		Deadline:     deadline,
		AutoRespond:  true,
		Locale:       models.LocaleUK,
	}
}

func deadlineAt(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func TestCompose_FirstContactOverridesCategory(t *testing.T) {
	rec := record(500000, nil)

	// Every category, matched or not, yields the opening demand while
	// the gang side has never spoken.
	for _, cat := range []intent.Category{
		intent.CategoryProof, intent.CategoryLaw, intent.CategoryThreat,
	} {
		out := Compose(cat, true, rec, true)
		assert.Contains(t, out, "We control your network")
		assert.Contains(t, out, "$500000")
	}

	out := Compose(0, false, rec, true)
	assert.Contains(t, out, "We control your network")
}

func TestCompose_FirstContactDeadlineClause(t *testing.T) {
	withDeadline := Compose(0, false, record(500000, deadlineAt(t, "2026-09-15T12:30:00Z")), true)
	assert.Contains(t, withDeadline, "Deadline: 2026-09-15 12:30 UTC")

	withoutDeadline := Compose(0, false, record(500000, nil), true)
	assert.NotContains(t, withoutDeadline, "Deadline:")
}

func TestCompose_NegotiateArithmetic(t *testing.T) {
	out := Compose(intent.CategoryNegotiate, true, record(500000, nil), false)

	assert.Contains(t, out, "$450000")
	assert.Contains(t, out, "$750000")
}

func TestCompose_NegotiateArithmeticFloors(t *testing.T) {
	// 333333 * 0.9 = 299999.7 and * 1.5 = 499999.5, both floored
	out := Compose(intent.CategoryNegotiate, true, record(333333, nil), false)

	assert.Contains(t, out, "$299999")
	assert.Contains(t, out, "$499999")

	// Derived amounts must be whole integers, never fractional
	amounts := regexp.MustCompile(`\$[\d.]+`).FindAllString(out, -1)
	require.NotEmpty(t, amounts)
	for _, amount := range amounts {
		assert.NotContains(t, amount, ".")
	}
}

func TestCompose_DeadlineBranch(t *testing.T) {
	withDeadline := Compose(intent.CategoryDeadline, true, record(500000, deadlineAt(t, "2026-09-15T12:30:00Z")), false)
	assert.Contains(t, withDeadline, "Extensions cost 10% of the base ransom per 24 hours.")
	assert.Contains(t, withDeadline, "Current deadline: 2026-09-15 12:30 UTC.")

	withoutDeadline := Compose(intent.CategoryDeadline, true, record(500000, nil), false)
	assert.Contains(t, withoutDeadline, "Extensions cost 10%")
	assert.NotContains(t, withoutDeadline, "Current deadline")
}

func TestCompose_PublishBranchDeadlineClause(t *testing.T) {
	withDeadline := Compose(intent.CategoryPublish, true, record(500000, deadlineAt(t, "2026-09-15T12:30:00Z")), false)
	assert.Contains(t, withDeadline, "Publication begins immediately after 2026-09-15 12:30 UTC.")

	withoutDeadline := Compose(intent.CategoryPublish, true, record(500000, nil), false)
	assert.NotContains(t, withoutDeadline, "Publication begins immediately")
	assert.Contains(t, withoutDeadline, "we WILL publish your data")
}

func TestCompose_FixedBranches(t *testing.T) {
	rec := record(500000, nil)

	tests := []struct {
		category intent.Category
		want     string
	}{
		{intent.CategoryProof, "max 3 files <5MB total"},
		{intent.CategoryProof, "within 24 hours"},
		{intent.CategoryPayment, "Minimum payment: 0.5 BTC equivalent"},
		{intent.CategoryPayment, "delivered within 1 hour"},
		{intent.CategoryLaw, "Do not contact law enforcement"},
		{intent.CategoryContact, "ONLY secure communication channel"},
		{intent.CategoryRecovery, "Your backups are encrypted too"},
		{intent.CategoryThreat, "threats won't work here"},
	}

	for _, tt := range tests {
		out := Compose(tt.category, true, rec, false)
		assert.Contains(t, out, tt.want)
	}
}

func TestCompose_FallbackRestatesDemand(t *testing.T) {
	out := Compose(0, false, record(750000, deadlineAt(t, "2026-10-01T00:00:00Z")), false)

	assert.Contains(t, out, "Payment demand remains $750000.")
	assert.Contains(t, out, "Deadline: 2026-10-01 00:00 UTC")
	assert.Contains(t, out, "Ask for a sample, propose terms, or arrange payment.")
}

func TestCompose_Deterministic(t *testing.T) {
	rec := record(500000, deadlineAt(t, "2026-09-15T12:30:00Z"))

	for cat := intent.CategoryProof; cat <= intent.CategoryThreat; cat++ {
		first := Compose(cat, true, rec, false)
		second := Compose(cat, true, rec, false)
		assert.Equal(t, first, second)
		assert.NotEmpty(t, first)
	}
}

func TestCompose_NeverEmpty(t *testing.T) {
	recs := []*models.Conversation{
		record(1, nil),
		record(500000, deadlineAt(t, "2026-09-15T12:30:00Z")),
	}

	for _, rec := range recs {
		for _, firstContact := range []bool{true, false} {
			for _, matched := range []bool{true, false} {
				for cat := intent.CategoryProof; cat <= intent.CategoryThreat; cat++ {
					out := Compose(cat, matched, rec, firstContact)
					assert.NotEmpty(t, out)
					assert.False(t, strings.HasSuffix(out, "\n"))
				}
			}
		}
	}
}

func TestFormatDeadline(t *testing.T) {
	assert.Empty(t, FormatDeadline(nil))

	parsed, err := time.Parse(time.RFC3339, "2026-09-15T14:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15 12:30 UTC", FormatDeadline(&parsed))
}
