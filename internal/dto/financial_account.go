package dto

import (
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// CreateFinancialAccountRequest defines the data needed to track a new account.
type CreateFinancialAccountRequest struct {
	Name         string                      `json:"name" binding:"required,max=100"`
	Type         domain.FinancialAccountType `json:"type" binding:"required,account_type"`
	Balance      int64                       `json:"balance"`
	Currency     string                      `json:"currency" binding:"omitempty,iso4217"`
	PrivacyLevel domain.PrivacyLevel         `json:"privacyLevel" binding:"omitempty,privacy_level"`
}

// FinancialAccountResponse defines data returned for a financial account.
type FinancialAccountResponse struct {
	AccountID    string                      `json:"accountID"`
	Name         string                      `json:"name"`
	Type         domain.FinancialAccountType `json:"type"`
	Balance      int64                       `json:"balance"`
	Currency     string                      `json:"currency"`
	PrivacyLevel domain.PrivacyLevel         `json:"privacyLevel"`
	CreatedAt    time.Time                   `json:"createdAt"`
}

// ToFinancialAccountResponse converts domain.FinancialAccount to DTO.
func ToFinancialAccountResponse(a *domain.FinancialAccount) FinancialAccountResponse {
	return FinancialAccountResponse{
		AccountID:    a.AccountID,
		Name:         a.Name,
		Type:         a.Type,
		Balance:      a.Balance,
		Currency:     a.Currency,
		PrivacyLevel: a.Privacy,
		CreatedAt:    a.CreatedAt,
	}
}

// ToFinancialAccountResponses converts accounts to DTO.
func ToFinancialAccountResponses(as []domain.FinancialAccount) []FinancialAccountResponse {
	res := make([]FinancialAccountResponse, len(as))
	for i, a := range as {
		res[i] = ToFinancialAccountResponse(&a)
	}
	return res
}
