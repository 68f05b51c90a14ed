package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// RecurringReader defines read operations for recurring templates
type RecurringReader interface {
	// FindTemplateByID retrieves a template of a group.
	FindTemplateByID(ctx context.Context, groupID, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates lists the templates of a group ordered by next run.
	ListTemplates(ctx context.Context, groupID string, includeInactive bool) ([]domain.RecurringTemplate, error)

	// ListDueTemplates lists the active templates of a group with nextRun <= now.
	ListDueTemplates(ctx context.Context, groupID string, now time.Time) ([]domain.RecurringTemplate, error)

	// ListGroupIDsWithDueTemplates lists the groups owning at least one due template.
	ListGroupIDsWithDueTemplates(ctx context.Context, now time.Time) ([]string, error)
}

// RecurringWriter defines write operations for recurring templates
type RecurringWriter interface {
	// SaveTemplate inserts a template.
	SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error

	// UpdateTemplate overwrites the editable fields of a template, including IsActive and NextRun.
	UpdateTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error

	// MaterializeDueTemplate creates the pending transaction and the alert
	// for a due template and moves its nextRun to nextRun, atomically. It
	// reports false without writing when the template is no longer due
	// (another run got there first).
	MaterializeDueTemplate(ctx context.Context, tmpl domain.RecurringTemplate, pending domain.Transaction, alert domain.Alert, nextRun time.Time) (bool, error)

	// RecordTemplatePayment inserts the completed payment of a template and
	// moves its nextRun, atomically.
	RecordTemplatePayment(ctx context.Context, tmpl domain.RecurringTemplate, payment domain.Transaction, nextRun time.Time, audit domain.AuditLog) error
}

// RecurringRepositoryFacade combines all recurring-template repository interfaces
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
