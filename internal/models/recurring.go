package models

import "time"

// RecurringTemplate represents a row of the recurring_templates table.
// SplitPolicy holds the JSONB encoding of the policy.
type RecurringTemplate struct {
	TemplateID  string    `db:"template_id"`
	GroupID     string    `db:"group_id"`
	Name        string    `db:"name"`
	Amount      int64     `db:"amount"`
	DayOfMonth  int       `db:"day_of_month"`
	PayerID     string    `db:"payer_id"`
	CategoryID  string    `db:"category_id"`
	Frequency   string    `db:"frequency"`
	IsActive    bool      `db:"is_active"`
	NextRun     time.Time `db:"next_run"`
	SplitPolicy []byte    `db:"split_policy"`
	AuditFields
}
