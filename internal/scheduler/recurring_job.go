package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
)

// RecurringJob raises the pending payments of one group's due templates.
type RecurringJob struct {
	groupID   string
	processor portssvc.RecurringProcessorSvc
	now       func() time.Time
	logger    *slog.Logger
}

// NewRecurringJob creates the job for groupID.
func NewRecurringJob(groupID string, processor portssvc.RecurringProcessorSvc, now func() time.Time, logger *slog.Logger) *RecurringJob {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecurringJob{groupID: groupID, processor: processor, now: now, logger: logger}
}

func (j *RecurringJob) Execute(ctx context.Context) error {
	created, err := j.processor.ProcessDueTemplates(ctx, j.groupID, j.now())
	if err != nil {
		return fmt.Errorf("process due templates for group %s: %w", j.groupID, err)
	}
	j.logger.Info("Recurring templates processed",
		slog.String("group_id", j.groupID),
		slog.Int("pending_created", created))
	return nil
}

func (j *RecurringJob) GroupID() string {
	return j.groupID
}

func (j *RecurringJob) Description() string {
	return "recurring templates"
}

// RecurringJobProvider returns a provider yielding one RecurringJob per
// group that has due templates.
func RecurringJobProvider(processor portssvc.RecurringProcessorSvc, now func() time.Time, logger *slog.Logger) func(context.Context) ([]Job, error) {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) ([]Job, error) {
		groupIDs, err := processor.ListGroupsWithDueTemplates(ctx, now())
		if err != nil {
			return nil, err
		}
		jobs := make([]Job, 0, len(groupIDs))
		for _, id := range groupIDs {
			jobs = append(jobs, NewRecurringJob(id, processor, now, logger))
		}
		return jobs, nil
	}
}
