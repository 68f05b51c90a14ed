package services

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// AlertSvcFacade reads and acknowledges group alerts
type AlertSvcFacade interface {
	ListUnreadAlerts(ctx context.Context, groupID, requestingUserID string) ([]domain.Alert, error)
	MarkAlertRead(ctx context.Context, groupID, alertID, requestingUserID string) error
}

// AuditSvcFacade records and lists audit entries
type AuditSvcFacade interface {
	// Record appends an entry to the audit log.
	Record(ctx context.Context, log domain.AuditLog) error

	// ListAuditLogs returns the 50 newest entries of a group.
	ListAuditLogs(ctx context.Context, groupID, requestingUserID string) ([]domain.AuditLog, error)
}

// CommentSvcFacade manages comments on transactions
type CommentSvcFacade interface {
	AddComment(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.CreateCommentRequest) (*domain.Comment, error)
	ListComments(ctx context.Context, groupID, transactionID, requestingUserID string) ([]domain.Comment, error)
}

// FinancialAccountSvcFacade manages a user's own financial accounts
type FinancialAccountSvcFacade interface {
	CreateFinancialAccount(ctx context.Context, userID string, req dto.CreateFinancialAccountRequest) (*domain.FinancialAccount, error)
	ListFinancialAccounts(ctx context.Context, userID string) ([]domain.FinancialAccount, error)
}
