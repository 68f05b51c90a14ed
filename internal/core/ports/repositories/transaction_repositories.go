package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// TransactionReader defines read operations for transactions. Every returned
// transaction carries its splits.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction of a group.
	FindTransactionByID(ctx context.Context, groupID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions ordered by date, then
	// creation time, descending, and the token of the next page if any.
	ListTransactions(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListPendingTransactions returns the PENDING transactions of a group, newest first.
	ListPendingTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error)

	// ListCompletedTransactions returns every completed transaction of a group.
	ListCompletedTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error)

	// ListCompletedTransactionsSince returns completed transactions dated on or after since.
	ListCompletedTransactionsSince(ctx context.Context, groupID string, since time.Time) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions. Each call is
// atomic: the row, its splits, the linked goal balance and the audit entry
// are written in one database transaction.
type TransactionWriter interface {
	// CreateTransaction inserts a transaction and applies its goal contribution.
	CreateTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error

	// UpdateTransaction replaces before with after, reverting before's goal
	// contribution and applying after's. Splits are replaced wholesale.
	// ErrConflict when the stored row no longer matches before's
	// LastUpdatedAt.
	UpdateTransaction(ctx context.Context, before, after domain.Transaction, audit domain.AuditLog) error

	// DeleteTransaction removes a transaction and reverts its goal contribution.
	DeleteTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error

	// ConfirmTransaction moves a PENDING transaction to COMPLETED with the
	// given amount and splits. ErrConflict when it is no longer pending.
	ConfirmTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
