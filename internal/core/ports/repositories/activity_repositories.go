package repositories

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// AlertRepositoryFacade stores group alerts.
type AlertRepositoryFacade interface {
	// ListUnreadAlerts lists a group's unread alerts, newest first.
	ListUnreadAlerts(ctx context.Context, groupID string) ([]domain.Alert, error)

	// MarkAlertRead marks one alert of a group as read.
	MarkAlertRead(ctx context.Context, groupID, alertID string) error
}

// AuditRepositoryFacade stores the append-only audit log.
type AuditRepositoryFacade interface {
	SaveAuditLog(ctx context.Context, log domain.AuditLog) error

	// ListAuditLogs returns up to limit entries of a group, newest first.
	ListAuditLogs(ctx context.Context, groupID string, limit int) ([]domain.AuditLog, error)
}

// CommentRepositoryFacade stores transaction comments.
type CommentRepositoryFacade interface {
	SaveComment(ctx context.Context, comment domain.Comment) error

	// ListComments lists the comments of a transaction, oldest first.
	ListComments(ctx context.Context, transactionID string) ([]domain.Comment, error)
}

// FinancialAccountRepositoryFacade stores users' financial accounts.
type FinancialAccountRepositoryFacade interface {
	SaveFinancialAccount(ctx context.Context, account domain.FinancialAccount) error

	// ListFinancialAccountsByUser lists a user's accounts, newest first.
	ListFinancialAccountsByUser(ctx context.Context, userID string) ([]domain.FinancialAccount, error)
}
