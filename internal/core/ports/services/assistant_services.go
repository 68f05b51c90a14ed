package services

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// AssistantSvcFacade turns natural language into transactions and reports
// into prose.
type AssistantSvcFacade interface {
	// ParseTransaction extracts a transaction from text for a group member.
	ParseTransaction(ctx context.Context, groupID, requestingUserID, text string) (*domain.ParsedTransaction, error)

	// ParseMessage extracts a transaction from text without a membership check.
	ParseMessage(ctx context.Context, groupID, text string) (*domain.ParsedTransaction, error)

	// ResolveDraft maps the names of a parsed transaction to group members and
	// categories. Unknown payers fall back to the first member and unknown
	// categories to the first category. A missing date becomes now.
	ResolveDraft(ctx context.Context, groupID string, parsed domain.ParsedTransaction, now time.Time) (*domain.TransactionDraft, error)

	// GenerateInsight writes a short narrative about a spending summary.
	GenerateInsight(ctx context.Context, summary domain.SpendingSummary) (string, error)
}

// WhatsAppSvcFacade handles the WhatsApp Cloud API webhook
type WhatsAppSvcFacade interface {
	// VerifySubscription returns the challenge to echo when mode and token
	// match, ErrForbidden otherwise.
	VerifySubscription(mode, token, challenge string) (string, error)

	// HandleWebhook records the transaction described by the first message
	// of the payload, once per message ID.
	HandleWebhook(ctx context.Context, payload dto.WhatsAppWebhookPayload) error
}
