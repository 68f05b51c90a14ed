package pgsql

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// --- Alerts ---

type PgxAlertRepository struct {
	BaseRepository
}

func newPgxAlertRepository(pool *pgxpool.Pool) *PgxAlertRepository {
	return &PgxAlertRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AlertRepositoryFacade = (*PgxAlertRepository)(nil)

func insertAlert(ctx context.Context, q querier, alert domain.Alert) error {
	_, err := q.Exec(ctx, `
		INSERT INTO alerts (alert_id, group_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		alert.AlertID, alert.GroupID, alert.Title, alert.Message, alert.IsRead, alert.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to insert alert "+alert.AlertID)
	}
	return nil
}

func (r *PgxAlertRepository) ListUnreadAlerts(ctx context.Context, groupID string) ([]domain.Alert, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT alert_id, group_id, title, message, is_read, created_at
		FROM alerts
		WHERE group_id = $1 AND NOT is_read
		ORDER BY created_at DESC;`, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query alerts for group "+groupID, err)
	}
	alerts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Alert, error) {
		var a domain.Alert
		err := row.Scan(&a.AlertID, &a.GroupID, &a.Title, &a.Message, &a.IsRead, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect alerts", err)
	}
	return alerts, nil
}

func (r *PgxAlertRepository) MarkAlertRead(ctx context.Context, groupID, alertID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE group_id = $1 AND alert_id = $2;`, groupID, alertID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark alert "+alertID+" read", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert not found")
	}
	return nil
}

// --- Audit log ---

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, log domain.AuditLog) error {
	return insertAuditLog(ctx, r.Pool, log)
}

func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, groupID string, limit int) ([]domain.AuditLog, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT audit_id, group_id, entity_type, entity_id, action, before, after, user_id, changed_at
		FROM audit_logs
		WHERE group_id = $1
		ORDER BY changed_at DESC
		LIMIT $2;`, groupID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs for group "+groupID, err)
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditLog, error) {
		var l domain.AuditLog
		var before, after []byte
		err := row.Scan(&l.AuditID, &l.GroupID, &l.EntityType, &l.EntityID, &l.Action, &before, &after, &l.UserID, &l.ChangedAt)
		l.Before, l.After = before, after
		return l, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect audit logs", err)
	}
	return logs, nil
}

// --- Comments ---

type PgxCommentRepository struct {
	BaseRepository
}

func newPgxCommentRepository(pool *pgxpool.Pool) *PgxCommentRepository {
	return &PgxCommentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CommentRepositoryFacade = (*PgxCommentRepository)(nil)

func (r *PgxCommentRepository) SaveComment(ctx context.Context, comment domain.Comment) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO comments (comment_id, transaction_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
		comment.CommentID, comment.TransactionID, comment.UserID, comment.Content, comment.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to save comment "+comment.CommentID)
	}
	return nil
}

func (r *PgxCommentRepository) ListComments(ctx context.Context, transactionID string) ([]domain.Comment, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT c.comment_id, c.transaction_id, c.user_id, u.name, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.transaction_id = $1
		ORDER BY c.created_at ASC;`, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query comments for transaction "+transactionID, err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Comment, error) {
		var c domain.Comment
		err := row.Scan(&c.CommentID, &c.TransactionID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect comments", err)
	}
	return comments, nil
}

// --- Financial accounts ---

type PgxFinancialAccountRepository struct {
	BaseRepository
}

func newPgxFinancialAccountRepository(pool *pgxpool.Pool) *PgxFinancialAccountRepository {
	return &PgxFinancialAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FinancialAccountRepositoryFacade = (*PgxFinancialAccountRepository)(nil)

func (r *PgxFinancialAccountRepository) SaveFinancialAccount(ctx context.Context, account domain.FinancialAccount) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO financial_accounts (account_id, user_id, name, type, balance, currency, privacy_level,
		                                created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		account.AccountID, account.UserID, account.Name, account.Type, account.Balance, account.Currency, account.Privacy,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "failed to save financial account "+account.AccountID)
	}
	return nil
}

func (r *PgxFinancialAccountRepository) ListFinancialAccountsByUser(ctx context.Context, userID string) ([]domain.FinancialAccount, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT account_id, user_id, name, type, balance, currency, privacy_level,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM financial_accounts
		WHERE user_id = $1
		ORDER BY created_at DESC;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query financial accounts for user "+userID, err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FinancialAccount, error) {
		var a domain.FinancialAccount
		err := row.Scan(&a.AccountID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.Privacy,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
		return a, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect financial accounts", err)
	}
	return accounts, nil
}
