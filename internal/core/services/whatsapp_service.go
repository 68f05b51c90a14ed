package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

const (
	whatsAppDedupPrefix   = "whatsapp:msg:"
	whatsAppDedupTTL      = 48 * time.Hour
	whatsAppDefaultDetail = "WhatsApp Transaction"
)

var errWebhookVerification = errors.New("webhook verification failed")

type whatsAppService struct {
	BaseService
	assistant   portssvc.AssistantSvcFacade
	txnSvc      portssvc.TransactionWriterSvc
	dedup       portsrepo.CacheStore
	verifyToken string
	groupID     string
	now         func() time.Time
}

// WhatsAppServiceOption configures a WhatsApp webhook service.
type WhatsAppServiceOption func(*whatsAppService)

// WithWhatsAppClock overrides the clock used for messages without a date.
func WithWhatsAppClock(now func() time.Time) WhatsAppServiceOption {
	return func(s *whatsAppService) {
		s.now = now
	}
}

// NewWhatsAppService creates the webhook service. Messages are booked into
// groupID; an empty groupID makes the webhook acknowledge and ignore them.
func NewWhatsAppService(
	assistant portssvc.AssistantSvcFacade,
	txnSvc portssvc.TransactionWriterSvc,
	dedup portsrepo.CacheStore,
	verifyToken, groupID string,
	opts ...WhatsAppServiceOption,
) portssvc.WhatsAppSvcFacade {
	s := &whatsAppService{
		assistant:   assistant,
		txnSvc:      txnSvc,
		dedup:       dedup,
		verifyToken: verifyToken,
		groupID:     groupID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.WhatsAppSvcFacade = (*whatsAppService)(nil)

func (s *whatsAppService) VerifySubscription(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || s.verifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(s.verifyToken)) != 1 {
		return "", errors.Join(apperrors.ErrForbidden, errWebhookVerification)
	}
	return challenge, nil
}

func (s *whatsAppService) HandleWebhook(ctx context.Context, payload dto.WhatsAppWebhookPayload) error {
	msg, ok := payload.FirstTextMessage()
	if !ok {
		s.LogDebug(ctx, "Webhook delivery without a text message")
		return nil
	}
	logger := s.GetLogger(ctx).With(
		slog.String("message_id", msg.MessageID),
		slog.String("contact", msg.ContactName))

	if s.groupID == "" {
		logger.Warn("WhatsApp message ignored, no target group configured")
		return nil
	}

	dedupKey := whatsAppDedupPrefix + msg.MessageID
	if s.dedup != nil && msg.MessageID != "" {
		fresh, err := s.dedup.SetIfAbsent(ctx, dedupKey, s.groupID, whatsAppDedupTTL)
		if err != nil {
			logger.Error("Failed to record message id", slog.String("error", err.Error()))
		} else if !fresh {
			logger.Info("Duplicate WhatsApp message dropped")
			return nil
		}
	}

	txn, err := s.book(ctx, msg)
	if err != nil {
		// The webhook is acknowledged either way, so Meta will not retry; the
		// key is freed so a manual replay of the payload is not dropped.
		if s.dedup != nil && msg.MessageID != "" {
			if derr := s.dedup.Delete(ctx, dedupKey); derr != nil {
				logger.Error("Failed to release message id", slog.String("error", derr.Error()))
			}
		}
		logger.Error("Failed to record WhatsApp transaction", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Transaction created from WhatsApp",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("amount", txn.Amount))
	return nil
}

func (s *whatsAppService) book(ctx context.Context, msg dto.WhatsAppInboundMessage) (*domain.Transaction, error) {
	parsed, err := s.assistant.ParseMessage(ctx, s.groupID, msg.Text)
	if err != nil {
		return nil, err
	}
	draft, err := s.assistant.ResolveDraft(ctx, s.groupID, *parsed, s.now())
	if err != nil {
		return nil, err
	}
	if draft.Description == "" {
		draft.Description = whatsAppDefaultDetail
	}

	policy := draft.SplitPolicy
	return s.txnSvc.CreateTransactionAs(ctx, s.groupID, domain.WhatsAppActor, dto.CreateTransactionRequest{
		Amount:      draft.Amount,
		Description: draft.Description,
		Date:        &draft.Date,
		PayerID:     draft.PayerID,
		CategoryID:  draft.CategoryID,
		Type:        draft.Type,
		SplitPolicy: &policy,
	})
}
