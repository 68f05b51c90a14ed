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

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryReader = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.CollectableRow) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.GroupID, &c.Name, &c.Icon)
	return c, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT category_id, group_id, name, icon FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query category "+categoryID, err)
	}
	category, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan category", err)
	}
	return &category, nil
}

func (r *PgxCategoryRepository) ListCategoriesForGroup(ctx context.Context, groupID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, group_id, name, icon
		FROM categories
		WHERE group_id = $1 OR group_id IS NULL
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list categories for group "+groupID, err)
	}
	categories, err := pgx.CollectRows(rows, scanCategory)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect categories", err)
	}
	return categories, nil
}
