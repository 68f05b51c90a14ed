package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGoalRepository struct {
	BaseRepository
}

func newPgxGoalRepository(pool *pgxpool.Pool) *PgxGoalRepository {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

const goalSelectQuery = `
SELECT goal_id, group_id, name, target_amount, current_amount, deadline,
       created_at, created_by, last_updated_at, last_updated_by
FROM goals
`

func scanGoal(row pgx.CollectableRow) (domain.Goal, error) {
	var g domain.Goal
	err := row.Scan(&g.GoalID, &g.GroupID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline,
		&g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy)
	return g, err
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, groupID, goalID string) (*domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, goalSelectQuery+`WHERE group_id = $1 AND goal_id = $2;`, groupID, goalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query goal "+goalID, err)
	}
	goals, err := pgx.CollectRows(rows, scanGoal)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan goal", err)
	}
	if len(goals) == 0 {
		return nil, apperrors.NewNotFoundError("goal not found")
	}
	return &goals[0], nil
}

func (r *PgxGoalRepository) ListGoals(ctx context.Context, groupID string) ([]domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, goalSelectQuery+`WHERE group_id = $1 ORDER BY created_at DESC;`, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list goals for group "+groupID, err)
	}
	goals, err := pgx.CollectRows(rows, scanGoal)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect goals", err)
	}
	return goals, nil
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO goals (goal_id, group_id, name, target_amount, current_amount, deadline,
		                   created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query, goal.GoalID, goal.GroupID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.Deadline,
		goal.CreatedAt, goal.CreatedBy, goal.LastUpdatedAt, goal.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "failed to save goal "+goal.GoalID)
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, deadline = $3, last_updated_at = $4, last_updated_by = $5
		WHERE group_id = $6 AND goal_id = $7;
	`
	cmdTag, err := tx.Exec(ctx, query, goal.Name, goal.TargetAmount, goal.Deadline, goal.LastUpdatedAt, goal.LastUpdatedBy,
		goal.GroupID, goal.GoalID)
	if err != nil {
		return mapWriteError(err, "failed to update goal "+goal.GoalID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("goal not found")
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, groupID, goalID string, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `UPDATE transactions SET goal_id = NULL WHERE group_id = $1 AND goal_id = $2;`, groupID, goalID); err != nil {
		return apperrors.NewAppError(500, "failed to unlink transactions from goal "+goalID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM goals WHERE group_id = $1 AND goal_id = $2;`, groupID, goalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete goal "+goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("goal not found")
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AdjustGoalAmountInTx moves the saved amount of a goal by delta inside tx.
func (r *PgxGoalRepository) AdjustGoalAmountInTx(ctx context.Context, tx pgx.Tx, goalID string, delta int64, actor string, at time.Time) error {
	if delta == 0 {
		return nil
	}
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1, last_updated_at = $2, last_updated_by = $3
		WHERE goal_id = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, delta, at, actor, goalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust goal "+goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("goal " + goalID + " not found")
	}
	return nil
}
