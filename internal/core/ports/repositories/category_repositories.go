package repositories

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesForGroup lists the group's own categories plus the global ones, by name.
	ListCategoriesForGroup(ctx context.Context, groupID string) ([]domain.Category, error)
}
