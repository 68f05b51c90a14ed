package services

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// GoalSvcFacade manages savings goals
type GoalSvcFacade interface {
	CreateGoal(ctx context.Context, groupID, requestingUserID string, req dto.CreateGoalRequest) (*domain.Goal, error)
	ListGoals(ctx context.Context, groupID, requestingUserID string) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, groupID, goalID, requestingUserID string, req dto.UpdateGoalRequest) (*domain.Goal, error)
	// DeleteGoal removes a goal; its transactions are kept and unlinked.
	DeleteGoal(ctx context.Context, groupID, goalID, requestingUserID string) error
}
