package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/google/uuid"
)

type goalService struct {
	BaseService
	goalRepo portsrepo.GoalRepositoryFacade
	now      func() time.Time
}

// NewGoalService creates a new savings-goal service.
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, authorizer portssvc.GroupAuthorizerSvc) portssvc.GoalSvcFacade {
	return &goalService{
		BaseService: BaseService{GroupAuthorizer: authorizer},
		goalRepo:    goalRepo,
		now:         time.Now,
	}
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func (s *goalService) CreateGoal(ctx context.Context, groupID, requestingUserID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErrorf("goal name is required")
	}
	if req.TargetAmount <= 0 {
		return nil, validationErrorf("target amount must be positive")
	}

	now := s.now()
	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		GroupID:      groupID,
		Name:         name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		AuditFields:  domain.NewAuditFields(requestingUserID, now),
	}

	audit := newAuditLog(groupID, domain.EntityGoal, goal.GoalID, domain.AuditCreate, nil, goal, requestingUserID, now)
	if err := s.goalRepo.SaveGoal(ctx, goal, audit); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("group_id", groupID))
		return nil, err
	}
	return &goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, groupID, requestingUserID string) ([]domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListGoals(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("group_id", groupID))
		return nil, err
	}
	return goals, nil
}

// UpdateGoal edits name, target and deadline. The current amount only moves
// with linked SAVING transactions.
func (s *goalService) UpdateGoal(ctx context.Context, groupID, goalID, requestingUserID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	before, err := s.goalRepo.FindGoalByID(ctx, groupID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	after := *before
	if req.Name != nil {
		after.Name = strings.TrimSpace(*req.Name)
		if after.Name == "" {
			return nil, validationErrorf("goal name is required")
		}
	}
	if req.TargetAmount != nil {
		if *req.TargetAmount <= 0 {
			return nil, validationErrorf("target amount must be positive")
		}
		after.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		after.Deadline = req.Deadline
	}
	after.LastUpdatedAt = now
	after.LastUpdatedBy = requestingUserID

	audit := newAuditLog(groupID, domain.EntityGoal, goalID, domain.AuditUpdate, before, after, requestingUserID, now)
	if err := s.goalRepo.UpdateGoal(ctx, after, audit); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, err
	}
	return &after, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, groupID, goalID, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return err
	}
	goal, err := s.goalRepo.FindGoalByID(ctx, groupID, goalID)
	if err != nil {
		return err
	}

	audit := newAuditLog(groupID, domain.EntityGoal, goalID, domain.AuditDelete, goal, nil, requestingUserID, s.now())
	if err := s.goalRepo.DeleteGoal(ctx, groupID, goalID, audit); err != nil {
		s.LogError(ctx, err, "Failed to delete goal", slog.String("goal_id", goalID))
		return err
	}
	s.LogInfo(ctx, "Goal deleted", slog.String("goal_id", goalID))
	return nil
}
