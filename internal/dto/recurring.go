package dto

import (
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// CreateRecurringTemplateRequest defines a new monthly payment.
type CreateRecurringTemplateRequest struct {
	Name        string              `json:"name" binding:"required,max=100"`
	Amount      int64               `json:"amount" binding:"required,gt=0"`
	DayOfMonth  int                 `json:"dayOfMonth" binding:"required,min=1,max=31"`
	PayerID     string              `json:"payerID" binding:"required"`
	CategoryID  string              `json:"categoryID" binding:"required"`
	SplitPolicy *domain.SplitPolicy `json:"splitPolicy"`
}

// UpdateRecurringTemplateRequest changes a template. Omitted fields are kept.
type UpdateRecurringTemplateRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=100"`
	Amount      *int64              `json:"amount" binding:"omitempty,gt=0"`
	DayOfMonth  *int                `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	PayerID     *string             `json:"payerID"`
	CategoryID  *string             `json:"categoryID"`
	SplitPolicy *domain.SplitPolicy `json:"splitPolicy"`
	IsActive    *bool               `json:"isActive"`
}

// RecurringTemplateResponse defines data returned for a template.
type RecurringTemplateResponse struct {
	TemplateID  string                    `json:"templateID"`
	GroupID     string                    `json:"groupID"`
	Name        string                    `json:"name"`
	Amount      int64                     `json:"amount"`
	DayOfMonth  int                       `json:"dayOfMonth"`
	PayerID     string                    `json:"payerID"`
	CategoryID  string                    `json:"categoryID"`
	Frequency   domain.RecurringFrequency `json:"frequency"`
	IsActive    bool                      `json:"isActive"`
	NextRun     time.Time                 `json:"nextRun"`
	SplitPolicy domain.SplitPolicy        `json:"splitPolicy"`
	CreatedAt   time.Time                 `json:"createdAt"`
	CreatedBy   string                    `json:"createdBy"`
}

// ToRecurringTemplateResponse converts domain.RecurringTemplate to DTO.
func ToRecurringTemplateResponse(t *domain.RecurringTemplate) RecurringTemplateResponse {
	return RecurringTemplateResponse{
		TemplateID:  t.TemplateID,
		GroupID:     t.GroupID,
		Name:        t.Name,
		Amount:      t.Amount,
		DayOfMonth:  t.DayOfMonth,
		PayerID:     t.PayerID,
		CategoryID:  t.CategoryID,
		Frequency:   t.Frequency,
		IsActive:    t.IsActive,
		NextRun:     t.NextRun,
		SplitPolicy: t.SplitPolicy,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ToRecurringTemplateResponses converts a slice of templates to DTO.
func ToRecurringTemplateResponses(ts []domain.RecurringTemplate) []RecurringTemplateResponse {
	res := make([]RecurringTemplateResponse, len(ts))
	for i, t := range ts {
		res[i] = ToRecurringTemplateResponse(&t)
	}
	return res
}

// ProcessDueTemplatesResponse reports how many pending payments were raised.
type ProcessDueTemplatesResponse struct {
	Created int `json:"created"`
}
