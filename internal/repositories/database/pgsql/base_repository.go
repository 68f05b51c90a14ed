package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped to application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapWriteError converts constraint violations into application errors and
// wraps anything else as an internal error with msg.
func mapWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflictError(msg + ": already exists")
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError(msg + ": referenced record does not exist (" + pgErr.ConstraintName + ")")
		}
	}
	return apperrors.NewAppError(500, msg, err)
}

// insertAuditLog appends an audit entry using q, so that it commits or rolls
// back together with the change it describes.
func insertAuditLog(ctx context.Context, q querier, log domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, group_id, entity_type, entity_id, action, before, after, user_id, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := q.Exec(ctx, query,
		log.AuditID,
		log.GroupID,
		log.EntityType,
		log.EntityID,
		log.Action,
		nullableJSON(log.Before),
		nullableJSON(log.After),
		log.UserID,
		log.ChangedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to insert audit log for "+log.EntityType+" "+log.EntityID)
	}
	return nil
}

// nullableJSON stores an empty snapshot as SQL NULL.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
