package services

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// SettlementSvcFacade derives balances and reports from group transactions
type SettlementSvcFacade interface {
	// GetBalance returns the requesting user's settlement balance in the group.
	GetBalance(ctx context.Context, groupID, requestingUserID string) (*domain.BalanceBreakdown, error)

	// GenerateReport summarises the last 30 days of spending up to now.
	GenerateReport(ctx context.Context, groupID, requestingUserID string, now time.Time) (*domain.FinancialReport, error)

	// RenderStatementPDF renders the user's settlement breakdown as a PDF document.
	RenderStatementPDF(ctx context.Context, groupID, requestingUserID string, now time.Time) ([]byte, error)
}
