package repositories

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// GoalReader defines read operations for goals
type GoalReader interface {
	FindGoalByID(ctx context.Context, groupID, goalID string) (*domain.Goal, error)
	ListGoals(ctx context.Context, groupID string) ([]domain.Goal, error)
}

// GoalWriter defines write operations for goals
type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error
	UpdateGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error
	// DeleteGoal unlinks the goal's transactions and deletes it.
	DeleteGoal(ctx context.Context, groupID, goalID string, audit domain.AuditLog) error
}

// GoalRepositoryFacade combines all goal repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}
