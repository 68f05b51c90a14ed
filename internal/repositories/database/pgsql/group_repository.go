package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGroupRepository struct {
	BaseRepository
}

// newPgxGroupRepository creates a new repository for group data.
func newPgxGroupRepository(pool *pgxpool.Pool) *PgxGroupRepository {
	return &PgxGroupRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxGroupRepository implements portsrepo.GroupRepositoryFacade
var _ portsrepo.GroupRepositoryFacade = (*PgxGroupRepository)(nil)

const groupSelectQuery = `
SELECT g.group_id, g.name, g.is_active, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
FROM groups g
`

func scanGroup(row pgx.CollectableRow) (domain.Group, error) {
	var g domain.Group
	err := row.Scan(&g.GroupID, &g.Name, &g.IsActive, &g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy)
	return g, err
}

func (r *PgxGroupRepository) getGroups(ctx context.Context, filterQuery string, args ...any) ([]domain.Group, error) {
	rows, err := r.Pool.Query(ctx, groupSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query groups", err)
	}
	groups, err := pgx.CollectRows(rows, scanGroup)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect group rows", err)
	}
	return groups, nil
}

func (r *PgxGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	groups, err := r.getGroups(ctx, `WHERE g.group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, apperrors.NewNotFoundError("group not found")
	}
	return &groups[0], nil
}

func (r *PgxGroupRepository) ListGroupsByUserID(ctx context.Context, userID string) ([]domain.Group, error) {
	query := `
		JOIN group_members gm ON gm.group_id = g.group_id
		WHERE gm.user_id = $1 AND gm.role <> 'REMOVED' AND g.is_active
		ORDER BY g.name;
	`
	return r.getGroups(ctx, query, userID)
}

func (r *PgxGroupRepository) CreateGroup(ctx context.Context, group domain.Group, owner domain.GroupMember, categories []domain.Category, audit domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO groups (group_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, query,
		group.GroupID,
		group.Name,
		group.IsActive,
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save group "+group.GroupID)
	}

	if err := upsertMember(ctx, tx, owner); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`INSERT INTO categories (category_id, group_id, name, icon) VALUES ($1, $2, $3, $4);`,
			c.CategoryID, c.GroupID, c.Name, c.Icon)
	}
	br := tx.SendBatch(ctx, batch)
	for range categories {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return mapWriteError(err, "failed to seed categories for group "+group.GroupID)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close category batch", err)
	}

	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func upsertMember(ctx context.Context, q querier, membership domain.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role;
	` // Upsert: add the user or bring a removed member back with the new role
	_, err := q.Exec(ctx, query, membership.GroupID, membership.UserID, membership.Role, membership.JoinedAt)
	if err != nil {
		return mapWriteError(err, "failed to add user "+membership.UserID+" to group "+membership.GroupID)
	}
	return nil
}

const memberSelectQuery = `
SELECT gm.user_id, u.name, gm.group_id, gm.role, gm.joined_at
FROM group_members gm
JOIN users u ON u.user_id = gm.user_id
`

func scanMember(row pgx.CollectableRow) (domain.GroupMember, error) {
	var m domain.GroupMember
	err := row.Scan(&m.UserID, &m.UserName, &m.GroupID, &m.Role, &m.JoinedAt)
	return m, err
}

func (r *PgxGroupRepository) FindGroupMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error) {
	rows, err := r.Pool.Query(ctx, memberSelectQuery+`WHERE gm.group_id = $1 AND gm.user_id = $2;`, groupID, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find user "+userID+" in group "+groupID, err)
	}
	member, err := pgx.CollectExactlyOneRow(rows, scanMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("group member not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan group member", err)
	}
	return &member, nil
}

func (r *PgxGroupRepository) ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	query := memberSelectQuery + `WHERE gm.group_id = $1 AND gm.role <> 'REMOVED' ORDER BY gm.joined_at ASC, gm.user_id ASC;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list members of group "+groupID, err)
	}
	members, err := pgx.CollectRows(rows, scanMember)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect group members", err)
	}
	return members, nil
}

func (r *PgxGroupRepository) AddGroupMember(ctx context.Context, membership domain.GroupMember) error {
	return upsertMember(ctx, r.Pool, membership)
}

func (r *PgxGroupRepository) AddNewUserToGroup(ctx context.Context, user domain.User, membership domain.GroupMember) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	if err := upsertMember(ctx, tx, membership); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxGroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID string, role domain.GroupRole) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3;`,
		role, groupID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role of user "+userID+" in group "+groupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("group member not found")
	}
	return nil
}

func (r *PgxGroupRepository) CountActiveMemberships(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM group_members WHERE user_id = $1 AND role <> 'REMOVED';`,
		userID).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count memberships of user "+userID, err)
	}
	return count, nil
}
