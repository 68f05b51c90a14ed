package services

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// RecurringTemplateSvc manages recurring templates
type RecurringTemplateSvc interface {
	CreateTemplate(ctx context.Context, groupID, requestingUserID string, req dto.CreateRecurringTemplateRequest) (*domain.RecurringTemplate, error)
	ListTemplates(ctx context.Context, groupID, requestingUserID string) ([]domain.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, groupID, templateID, requestingUserID string, req dto.UpdateRecurringTemplateRequest) (*domain.RecurringTemplate, error)
	DeactivateTemplate(ctx context.Context, groupID, templateID, requestingUserID string) error

	// ConfirmRecurringPayment records the template's payment now as a
	// COMPLETED expense and moves the template to its next due date.
	ConfirmRecurringPayment(ctx context.Context, groupID, templateID, requestingUserID string) (*domain.Transaction, error)
}

// RecurringProcessorSvc raises pending payments for due templates
type RecurringProcessorSvc interface {
	// ProcessDueTemplates creates a pending transaction and an alert for every
	// due template of the group and returns how many were created.
	ProcessDueTemplates(ctx context.Context, groupID string, now time.Time) (int, error)

	// RunDueTemplates is ProcessDueTemplates triggered by a group admin.
	RunDueTemplates(ctx context.Context, groupID, requestingUserID string, now time.Time) (int, error)

	// ListGroupsWithDueTemplates lists the groups that have due templates.
	ListGroupsWithDueTemplates(ctx context.Context, now time.Time) ([]string, error)
}

// RecurringSvcFacade combines all recurring-related service interfaces
type RecurringSvcFacade interface {
	RecurringTemplateSvc
	RecurringProcessorSvc
}
