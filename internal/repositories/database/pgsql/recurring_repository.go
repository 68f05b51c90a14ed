package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/couple_finance_app/internal/models"
	"github.com/SscSPs/couple_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecurringRepository struct {
	BaseRepository
}

func newPgxRecurringRepository(pool *pgxpool.Pool) *PgxRecurringRepository {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const templateSelectQuery = `
SELECT template_id, group_id, name, amount, day_of_month, payer_id, category_id, frequency,
       is_active, next_run, split_policy,
       created_at, created_by, last_updated_at, last_updated_by
FROM recurring_templates
`

func (r *PgxRecurringRepository) queryTemplates(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.RecurringTemplate, error) {
	rows, err := q.Query(ctx, templateSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring templates", err)
	}
	modelTemplates, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect recurring templates", err)
	}
	templates := make([]domain.RecurringTemplate, len(modelTemplates))
	for i, m := range modelTemplates {
		templates[i], err = mapping.ToDomainRecurringTemplate(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode recurring template", err)
		}
	}
	return templates, nil
}

func (r *PgxRecurringRepository) FindTemplateByID(ctx context.Context, groupID, templateID string) (*domain.RecurringTemplate, error) {
	templates, err := r.queryTemplates(ctx, r.Pool, `WHERE group_id = $1 AND template_id = $2;`, groupID, templateID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, apperrors.NewNotFoundError("recurring template not found")
	}
	return &templates[0], nil
}

func (r *PgxRecurringRepository) ListTemplates(ctx context.Context, groupID string, includeInactive bool) ([]domain.RecurringTemplate, error) {
	filter := `WHERE group_id = $1`
	if !includeInactive {
		filter += ` AND is_active`
	}
	return r.queryTemplates(ctx, r.Pool, filter+` ORDER BY next_run ASC, name ASC;`, groupID)
}

func (r *PgxRecurringRepository) ListDueTemplates(ctx context.Context, groupID string, now time.Time) ([]domain.RecurringTemplate, error) {
	return r.queryTemplates(ctx, r.Pool,
		`WHERE group_id = $1 AND is_active AND next_run <= $2 ORDER BY next_run ASC;`, groupID, now)
}

func (r *PgxRecurringRepository) ListGroupIDsWithDueTemplates(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT t.group_id
		FROM recurring_templates t
		JOIN groups g ON g.group_id = t.group_id
		WHERE t.is_active AND g.is_active AND t.next_run <= $1
		ORDER BY t.group_id;`, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query groups with due templates", err)
	}
	groupIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect group ids", err)
	}
	return groupIDs, nil
}

func (r *PgxRecurringRepository) SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error {
	m, err := mapping.ToModelRecurringTemplate(tmpl)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode recurring template", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO recurring_templates (template_id, group_id, name, amount, day_of_month, payer_id, category_id,
		                                 frequency, is_active, next_run, split_policy,
		                                 created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.TemplateID,
		m.GroupID,
		m.Name,
		m.Amount,
		m.DayOfMonth,
		m.PayerID,
		m.CategoryID,
		m.Frequency,
		m.IsActive,
		m.NextRun,
		string(m.SplitPolicy),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save recurring template "+tmpl.TemplateID)
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxRecurringRepository) UpdateTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error {
	m, err := mapping.ToModelRecurringTemplate(tmpl)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode recurring template", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE recurring_templates
		SET name = $1, amount = $2, day_of_month = $3, payer_id = $4, category_id = $5, is_active = $6,
		    next_run = $7, split_policy = $8, last_updated_at = $9, last_updated_by = $10
		WHERE group_id = $11 AND template_id = $12;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.Name,
		m.Amount,
		m.DayOfMonth,
		m.PayerID,
		m.CategoryID,
		m.IsActive,
		m.NextRun,
		string(m.SplitPolicy),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.GroupID,
		m.TemplateID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update recurring template "+tmpl.TemplateID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring template not found")
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// advanceTemplateInTx moves next_run forward, but only if the row still has
// the next_run the caller read. It reports whether the row was moved.
func advanceTemplateInTx(ctx context.Context, tx pgx.Tx, tmpl domain.RecurringTemplate, nextRun time.Time, actor string, at time.Time) (bool, error) {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE recurring_templates
		SET next_run = $1, last_updated_at = $2, last_updated_by = $3
		WHERE template_id = $4 AND is_active AND next_run = $5 AND next_run < $1;`,
		nextRun, at, actor, tmpl.TemplateID, tmpl.NextRun)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to advance recurring template "+tmpl.TemplateID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxRecurringRepository) MaterializeDueTemplate(ctx context.Context, tmpl domain.RecurringTemplate, pending domain.Transaction, alert domain.Alert, nextRun time.Time) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	// Advancing first doubles as the lock: a concurrent run sees next_run
	// already moved and writes nothing.
	moved, err := advanceTemplateInTx(ctx, tx, tmpl, nextRun, pending.CreatedBy, pending.CreatedAt)
	if err != nil || !moved {
		return false, err
	}
	if err := insertTransactionInTx(ctx, tx, pending); err != nil {
		return false, err
	}
	if err := insertAlert(ctx, tx, alert); err != nil {
		return false, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PgxRecurringRepository) RecordTemplatePayment(ctx context.Context, tmpl domain.RecurringTemplate, payment domain.Transaction, nextRun time.Time, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	moved, err := advanceTemplateInTx(ctx, tx, tmpl, nextRun, payment.CreatedBy, payment.CreatedAt)
	if err != nil {
		return err
	}
	if !moved {
		return apperrors.NewAppError(409, "recurring template "+tmpl.TemplateID+" was changed concurrently", apperrors.ErrConflict)
	}
	if err := insertTransactionInTx(ctx, tx, payment); err != nil {
		return err
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
