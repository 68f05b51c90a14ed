package dto

import (
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// SplitRequest is one explicit share of a transaction.
type SplitRequest struct {
	UserID     string   `json:"userID" binding:"required"`
	Amount     int64    `json:"amount" binding:"min=0"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// CreateTransactionRequest defines the data needed to record a transaction.
// Splits are either listed explicitly or derived from SplitPolicy over the
// current group members. With neither, the amount is split equally between
// the members.
type CreateTransactionRequest struct {
	Amount      int64                  `json:"amount" binding:"required,gt=0"`
	Description string                 `json:"description" binding:"required,max=255"`
	Date        *time.Time             `json:"date"` // defaults to now
	PayerID     string                 `json:"payerID" binding:"required"`
	CategoryID  string                 `json:"categoryID" binding:"required"`
	GoalID      *string                `json:"goalID"`
	Type        domain.TransactionType `json:"type" binding:"required,transaction_type"`
	Splits      []SplitRequest         `json:"splits" binding:"omitempty,dive"`
	SplitPolicy *domain.SplitPolicy    `json:"splitPolicy"`
}

// UpdateTransactionRequest replaces the editable fields of a transaction.
type UpdateTransactionRequest CreateTransactionRequest

// ConfirmTransactionRequest confirms a pending transaction, optionally
// correcting its amount and choosing how it is split (ALL by default).
type ConfirmTransactionRequest struct {
	Amount      *int64              `json:"amount" binding:"omitempty,gt=0"`
	SplitPolicy *domain.SplitPolicy `json:"splitPolicy"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// SplitResponse is one share of a transaction.
type SplitResponse struct {
	UserID     string   `json:"userID"`
	Amount     int64    `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// TransactionResponse defines data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	GroupID       string                   `json:"groupID"`
	Amount        int64                    `json:"amount"`
	Description   string                   `json:"description"`
	Date          time.Time                `json:"date"`
	PayerID       string                   `json:"payerID"`
	CategoryID    string                   `json:"categoryID"`
	GoalID        *string                  `json:"goalID,omitempty"`
	TemplateID    *string                  `json:"templateID,omitempty"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	Splits        []SplitResponse          `json:"splits"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy string                   `json:"lastUpdatedBy"`
}

// ToSplitResponses converts splits to DTO.
func ToSplitResponses(splits []domain.Split) []SplitResponse {
	res := make([]SplitResponse, len(splits))
	for i, s := range splits {
		res[i] = SplitResponse{UserID: s.UserID, Amount: s.Amount, Percentage: s.Percentage}
	}
	return res
}

// ToTransactionResponse converts domain.Transaction to DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		GroupID:       t.GroupID,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		PayerID:       t.PayerID,
		CategoryID:    t.CategoryID,
		GoalID:        t.GoalID,
		TemplateID:    t.TemplateID,
		Type:          t.Type,
		Status:        t.Status,
		Splits:        ToSplitResponses(t.Splits),
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of transactions to DTO.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		res[i] = ToTransactionResponse(&t)
	}
	return res
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// SplitPreviewRequest asks how an amount would be divided under a policy.
type SplitPreviewRequest struct {
	Amount      int64              `json:"amount" binding:"required,gt=0"`
	SplitPolicy domain.SplitPolicy `json:"splitPolicy"`
}

// SplitPreviewResponse lists the computed shares, one per member.
type SplitPreviewResponse struct {
	Splits []SplitResponse `json:"splits"`
}
