package services

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) (*domain.Transaction, error)

	// ListTransactions returns a page of a group's transactions, newest first.
	ListTransactions(ctx context.Context, groupID, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	ListPendingTransactions(ctx context.Context, groupID, requestingUserID string) ([]domain.Transaction, error)

	// PreviewSplits shows how amount would be divided between the current members.
	PreviewSplits(ctx context.Context, groupID, requestingUserID string, amount int64, policy domain.SplitPolicy) ([]domain.Split, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction records a COMPLETED transaction on behalf of a member.
	CreateTransaction(ctx context.Context, groupID, requestingUserID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// CreateTransactionAs records a COMPLETED transaction on behalf of a
	// system actor such as the WhatsApp bot. No membership check is made.
	CreateTransactionAs(ctx context.Context, groupID, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	UpdateTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	DeleteTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) error

	// ConfirmPendingTransaction completes a PENDING transaction. ErrConflict
	// when it is not pending.
	ConfirmPendingTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.ConfirmTransactionRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
