package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
)

// TransactionType classifies the purpose of a transaction.
type TransactionType string

const (
	TransactionExpense    TransactionType = "EXPENSE"
	TransactionIncome     TransactionType = "INCOME"
	TransactionSaving     TransactionType = "SAVING"
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionExpense, TransactionIncome, TransactionSaving, TransactionTransfer, TransactionAdjustment:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a transaction.
// PENDING only ever moves to COMPLETED.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
)

// Split is one member's share of a transaction, in minor currency units.
type Split struct {
	UserID     string   `json:"userID"`
	Amount     int64    `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// Transaction is a money movement recorded inside a group.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	GroupID       string            `json:"groupID"`
	Amount        int64             `json:"amount"` // minor units, always positive
	Description   string            `json:"description"`
	Date          time.Time         `json:"date"`
	PayerID       string            `json:"payerID"`
	CategoryID    string            `json:"categoryID"`
	GoalID        *string           `json:"goalID,omitempty"`
	TemplateID    *string           `json:"templateID,omitempty"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Splits        []Split           `json:"splits"`
	AuditFields
}

// IsCompleted reports whether the transaction counts towards balances.
func (t Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// SplitTotal sums the amounts of all splits.
func (t Transaction) SplitTotal() int64 {
	var total int64
	for _, s := range t.Splits {
		total += s.Amount
	}
	return total
}

// ShareOf returns the split amount assigned to userID, 0 when there is none.
func (t Transaction) ShareOf(userID string) int64 {
	for _, s := range t.Splits {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return 0
}

// GoalContribution returns the goal and amount this transaction adds to it.
// Only SAVING transactions linked to a goal contribute.
func (t Transaction) GoalContribution() (string, int64, bool) {
	if t.Type != TransactionSaving || t.GoalID == nil || *t.GoalID == "" {
		return "", 0, false
	}
	return *t.GoalID, t.Amount, true
}

// Validate checks the fields every persisted transaction must satisfy,
// including that a completed transaction's splits add up to its amount.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if t.Description == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if t.PayerID == "" {
		return fmt.Errorf("%w: payer is required", apperrors.ErrValidation)
	}
	if t.CategoryID == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: invalid transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if t.Status != StatusPending && t.Status != StatusCompleted {
		return fmt.Errorf("%w: invalid transaction status %q", apperrors.ErrValidation, t.Status)
	}

	seen := make(map[string]struct{}, len(t.Splits))
	for _, s := range t.Splits {
		if s.UserID == "" {
			return fmt.Errorf("%w: split user is required", apperrors.ErrValidation)
		}
		if s.Amount < 0 {
			return fmt.Errorf("%w: split amount for user %s is negative", apperrors.ErrValidation, s.UserID)
		}
		if _, dup := seen[s.UserID]; dup {
			return fmt.Errorf("%w: user %s appears in more than one split", apperrors.ErrValidation, s.UserID)
		}
		seen[s.UserID] = struct{}{}
	}

	if t.IsCompleted() && len(t.Splits) > 0 && t.SplitTotal() != t.Amount {
		return fmt.Errorf("%w: splits sum to %d but transaction amount is %d", apperrors.ErrValidation, t.SplitTotal(), t.Amount)
	}
	return nil
}
