package dto

import (
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// CreateGoalRequest defines a new savings goal.
type CreateGoalRequest struct {
	Name         string     `json:"name" binding:"required,max=100"`
	TargetAmount int64      `json:"targetAmount" binding:"required,gt=0"`
	Deadline     *time.Time `json:"deadline"`
}

// UpdateGoalRequest changes a goal. Omitted fields are kept.
type UpdateGoalRequest struct {
	Name         *string    `json:"name" binding:"omitempty,max=100"`
	TargetAmount *int64     `json:"targetAmount" binding:"omitempty,gt=0"`
	Deadline     *time.Time `json:"deadline"`
}

// GoalResponse defines data returned for a goal.
type GoalResponse struct {
	GoalID          string     `json:"goalID"`
	GroupID         string     `json:"groupID"`
	Name            string     `json:"name"`
	TargetAmount    int64      `json:"targetAmount"`
	CurrentAmount   int64      `json:"currentAmount"`
	ProgressPercent int64      `json:"progressPercent"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ToGoalResponse converts domain.Goal to DTO.
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:          g.GoalID,
		GroupID:         g.GroupID,
		Name:            g.Name,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		ProgressPercent: g.ProgressPercent(),
		Deadline:        g.Deadline,
		CreatedAt:       g.CreatedAt,
	}
}

// ToGoalResponses converts a slice of goals to DTO.
func ToGoalResponses(gs []domain.Goal) []GoalResponse {
	res := make([]GoalResponse, len(gs))
	for i, g := range gs {
		res[i] = ToGoalResponse(&g)
	}
	return res
}
