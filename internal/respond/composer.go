package respond

import (
	"fmt"
	"strings"
	"time"

	"ransomsim/internal/intent"
	"ransomsim/internal/models"
)

// DeadlineLayout is the display format for deadlines inside composed
// messages.
const DeadlineLayout = "2006-01-02 15:04"

// FormatDeadline renders a deadline for message text; empty when the
// conversation has no deadline set.
func FormatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return ""
	}
	return deadline.UTC().Format(DeadlineLayout) + " UTC"
}

// Compose builds the scripted gang reply for one inbound victim
// message. The first-contact branch always wins; afterwards the
// matched category drives an exhaustive dispatch, with a fallback
// restating the demand when nothing matched. All derived amounts use
// integer floor arithmetic on the demand amount. Output is always
// non-empty and deterministic for identical inputs.
func Compose(category intent.Category, matched bool, rec *models.Conversation, firstContact bool) string {
	deadline := FormatDeadline(rec.Deadline)

	if firstContact {
		return composeFirstContact(rec.DemandAmount, deadline)
	}

	if !matched {
		return composeFallback(rec.DemandAmount, deadline)
	}

	switch category {
	case intent.CategoryProof:
		return strings.Join([]string{
			"We will decrypt a small sample (max 3 files <5MB total) to prove capability.",
			"Send the file names you want as proof. We will return 1 sample within 24 hours.",
			"This does not change the demand or the deadline.",
			"Proof files are non-negotiable and part of the recovery process.",
		}, "\n")

	case intent.CategoryPayment:
		return strings.Join([]string{
			"Accepted payment methods:",
			"- Bitcoin (BTC): Single address per victim",
			"- Monero (XMR): Preferred for privacy",
			"Minimum payment: 0.5 BTC equivalent",
			"After payment confirmation, decryption key will be delivered within 1 hour.",
			"No chargeback possible with crypto. Payment is final.",
		}, "\n")

	case intent.CategoryNegotiate:
		discounted := rec.DemandAmount * 9 / 10
		penalty := rec.DemandAmount * 3 / 2
		return strings.Join([]string{
			"Limited discounts available:",
			fmt.Sprintf("- 10%% reduction if paid within 24 hours: $%d", discounted),
			fmt.Sprintf("- No negotiation after deadline. Price increases to $%d.", penalty),
			"Current demand is fair for the data volume we hold.",
			"Delays increase exposure and likelihood of publication.",
		}, "\n")

	case intent.CategoryDeadline:
		parts := []string{"Extensions cost 10% of the base ransom per 24 hours."}
		if deadline != "" {
			parts = append(parts, fmt.Sprintf("Current deadline: %s.", deadline))
		}
		parts = append(parts,
			"Further delays guarantee publication on the public leak site.",
			"Every hour you delay, more potential buyers gain access to your data.",
		)
		return strings.Join(parts, "\n")

	case intent.CategoryLaw:
		return strings.Join([]string{
			"Do not contact law enforcement or third-party recovery services.",
			"Authorities cannot decrypt our encryption.",
			"Attempts to involve authorities will trigger immediate publication.",
			"We monitor communications. Betrayal has consequences.",
			"Pay or lose everything. It's your choice.",
		}, "\n")

	case intent.CategoryContact:
		return strings.Join([]string{
			"This chat is your ONLY secure communication channel.",
			"Do not attempt to contact us via other means.",
			"Phone calls, emails, or third-party intermediaries will be ignored.",
			"Respond here with serious negotiation or payment instructions.",
		}, "\n")

	case intent.CategoryRecovery:
		return strings.Join([]string{
			"Your backups are encrypted too. We found them all.",
			"Recovery software, tools, and paid services cannot help.",
			"Only our decryption key will restore your data.",
			"Stop wasting time. Pay and get back online.",
		}, "\n")

	case intent.CategoryPublish:
		parts := []string{
			"Yes, we WILL publish your data if you don't pay.",
			"Our buyers are competitors, journalists, and interested parties.",
			"Your data is valuable. We have multiple buyers already lined up.",
		}
		if deadline != "" {
			parts = append(parts, fmt.Sprintf("Publication begins immediately after %s.", deadline))
		}
		parts = append(parts, "The longer you delay, the more copies spread. Act now.")
		return strings.Join(parts, "\n")

	case intent.CategoryThreat:
		return strings.Join([]string{
			"We appreciate your boldness, but threats won't work here.",
			"We operate from jurisdictions beyond reach.",
			"You have one option: pay or lose your data.",
			"We've done this thousands of times. You won't be the first to pay.",
			"The clock is ticking.",
		}, "\n")
	}

	return composeFallback(rec.DemandAmount, deadline)
}

func composeFirstContact(demand int64, deadline string) string {
	parts := []string{
		"We control your network and your confidential data.",
		fmt.Sprintf("The demand is $%d. Payment in cryptocurrency only (Bitcoin/Monero preferred).", demand),
	}
	if deadline != "" {
		parts = append(parts, fmt.Sprintf("Deadline: %s. After this, we publish and sell your data.", deadline))
	}
	parts = append(parts, "Reply here to negotiate or request proof of decryption.")
	return strings.Join(parts, "\n")
}

func composeFallback(demand int64, deadline string) string {
	parts := []string{
		fmt.Sprintf("Payment demand remains $%d.", demand),
		"We expect a serious offer or prompt payment.",
	}
	if deadline != "" {
		parts = append(parts, fmt.Sprintf("Deadline: %s. Time is running out.", deadline))
	}
	parts = append(parts, "Ask for a sample, propose terms, or arrange payment.")
	return strings.Join(parts, "\n")
}
