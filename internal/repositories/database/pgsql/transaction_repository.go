package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/couple_finance_app/internal/models"
	"github.com/SscSPs/couple_finance_app/internal/utils/mapping"
	"github.com/SscSPs/couple_finance_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
	goalRepo *PgxGoalRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool, goalRepo *PgxGoalRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		goalRepo:       goalRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionSelectQuery = `
SELECT transaction_id, group_id, amount, description, date, payer_id, category_id,
       goal_id, template_id, type, status,
       created_at, created_by, last_updated_at, last_updated_by
FROM transactions
`

const defaultPageSize = 20

// queryTransactions runs a transaction select and attaches the splits of
// every returned row.
func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, transactionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}
	if len(modelTxns) == 0 {
		return []domain.Transaction{}, nil
	}

	ids := make([]string, len(modelTxns))
	for i, m := range modelTxns {
		ids[i] = m.TransactionID
	}
	splitRows, err := q.Query(ctx, `
		SELECT transaction_id, user_id, amount, percentage
		FROM transaction_splits
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, user_id;`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction splits", err)
	}
	modelSplits, err := pgx.CollectRows(splitRows, pgx.RowToStructByName[models.Split])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect transaction splits", err)
	}
	byTxn := make(map[string][]models.Split, len(modelTxns))
	for _, s := range modelSplits {
		byTxn[s.TransactionID] = append(byTxn[s.TransactionID], s)
	}

	txns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainTransaction(m, byTxn[m.TransactionID])
	}
	return txns, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, groupID, transactionID string) (*domain.Transaction, error) {
	txns, err := r.queryTransactions(ctx, r.Pool, `WHERE group_id = $1 AND transaction_id = $2;`, groupID, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError("transaction not found")
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	filterClause := `WHERE group_id = $1`
	args := []any{groupID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		// Tuple comparison keeps the keyset stable for equal dates.
		filterClause += ` AND (date, created_at, transaction_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	query := filterClause + ` ORDER BY date DESC, created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	txns, err := r.queryTransactions(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		newNextToken = &token
		txns = txns[:limit]
	}
	return txns, newNextToken, nil
}

func (r *PgxTransactionRepository) ListPendingTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, r.Pool,
		`WHERE group_id = $1 AND status = 'PENDING' ORDER BY date DESC, created_at DESC;`, groupID)
}

func (r *PgxTransactionRepository) ListCompletedTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, r.Pool,
		`WHERE group_id = $1 AND status = 'COMPLETED' ORDER BY date DESC, created_at DESC;`, groupID)
}

func (r *PgxTransactionRepository) ListCompletedTransactionsSince(ctx context.Context, groupID string, since time.Time) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, r.Pool,
		`WHERE group_id = $1 AND status = 'COMPLETED' AND date >= $2 ORDER BY date DESC, created_at DESC;`, groupID, since)
}

// insertTransactionInTx writes the transaction row and its splits.
func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, group_id, amount, description, date, payer_id, category_id,
		                          goal_id, template_id, type, status,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.GroupID,
		m.Amount,
		m.Description,
		m.Date,
		m.PayerID,
		m.CategoryID,
		m.GoalID,
		m.TemplateID,
		m.Type,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to insert transaction "+txn.TransactionID)
	}
	return insertSplitsInTx(ctx, tx, txn)
}

func insertSplitsInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if len(txn.Splits) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, s := range mapping.ToModelSplits(txn.TransactionID, txn.Splits) {
		batch.Queue(`INSERT INTO transaction_splits (transaction_id, user_id, amount, percentage) VALUES ($1, $2, $3, $4);`,
			s.TransactionID, s.UserID, s.Amount, s.Percentage)
	}
	br := tx.SendBatch(ctx, batch)
	for range txn.Splits {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return mapWriteError(err, "failed to insert splits for transaction "+txn.TransactionID)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close split batch", err)
	}
	return nil
}

// applyGoalContribution adds (sign 1) or reverts (sign -1) what txn adds to its goal.
func (r *PgxTransactionRepository) applyGoalContribution(ctx context.Context, tx pgx.Tx, txn domain.Transaction, sign int64, actor string, at time.Time) error {
	goalID, amount, ok := txn.GoalContribution()
	if !ok {
		return nil
	}
	return r.goalRepo.AdjustGoalAmountInTx(ctx, tx, goalID, sign*amount, actor, at)
}

func (r *PgxTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.applyGoalContribution(ctx, tx, txn, 1, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, before, after domain.Transaction, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The row is only rewritten if nobody changed it since before was read.
	// The UPDATE also locks it, so the goal revert below uses before's
	// contribution exactly once.
	m := mapping.ToModelTransaction(after)
	query := `
		UPDATE transactions
		SET amount = $1, description = $2, date = $3, payer_id = $4, category_id = $5, goal_id = $6,
		    type = $7, last_updated_at = $8, last_updated_by = $9
		WHERE group_id = $10 AND transaction_id = $11 AND last_updated_at = $12;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.Amount,
		m.Description,
		m.Date,
		m.PayerID,
		m.CategoryID,
		m.GoalID,
		m.Type,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.GroupID,
		m.TransactionID,
		before.LastUpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to update transaction "+after.TransactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "transaction "+after.TransactionID+" was modified or deleted concurrently", apperrors.ErrConflict)
	}

	if err := r.applyGoalContribution(ctx, tx, before, -1, after.LastUpdatedBy, after.LastUpdatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_splits WHERE transaction_id = $1;`, after.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear splits of transaction "+after.TransactionID, err)
	}
	if err := insertSplitsInTx(ctx, tx, after); err != nil {
		return err
	}
	if err := r.applyGoalContribution(ctx, tx, after, 1, after.LastUpdatedBy, after.LastUpdatedAt); err != nil {
		return err
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.applyGoalContribution(ctx, tx, txn, -1, audit.UserID, audit.ChangedAt); err != nil {
		return err
	}
	// Splits and comments go with the row (ON DELETE CASCADE).
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE group_id = $1 AND transaction_id = $2;`, txn.GroupID, txn.TransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction not found")
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) ConfirmTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE transactions
		SET status = 'COMPLETED', amount = $1, last_updated_at = $2, last_updated_by = $3
		WHERE group_id = $4 AND transaction_id = $5 AND status = 'PENDING';
	`
	cmdTag, err := tx.Exec(ctx, query, txn.Amount, txn.LastUpdatedAt, txn.LastUpdatedBy, txn.GroupID, txn.TransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to confirm transaction "+txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Someone else confirmed it first.
		return apperrors.NewAppError(409, "transaction "+txn.TransactionID+" is not pending", apperrors.ErrConflict)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_splits WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear splits of transaction "+txn.TransactionID, err)
	}
	if err := insertSplitsInTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.applyGoalContribution(ctx, tx, txn, 1, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		return err
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
