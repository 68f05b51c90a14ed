package domain

import "time"

// Goal is a group savings target fed by SAVING transactions.
type Goal struct {
	GoalID        string     `json:"goalID"`
	GroupID       string     `json:"groupID"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"targetAmount"`
	CurrentAmount int64      `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	AuditFields
}

// ProgressPercent is the rounded share of the target already saved.
func (g Goal) ProgressPercent() int64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return (g.CurrentAmount*100 + g.TargetAmount/2) / g.TargetAmount
}
