package domain

import "time"

// RecurringFrequency is how often a template falls due. Only monthly is supported.
type RecurringFrequency string

const FrequencyMonthly RecurringFrequency = "MONTHLY"

// RecurringTemplate describes a payment generated on a monthly cadence.
type RecurringTemplate struct {
	TemplateID  string             `json:"templateID"`
	GroupID     string             `json:"groupID"`
	Name        string             `json:"name"`
	Amount      int64              `json:"amount"`
	DayOfMonth  int                `json:"dayOfMonth"` // 1..31
	PayerID     string             `json:"payerID"`
	CategoryID  string             `json:"categoryID"`
	Frequency   RecurringFrequency `json:"frequency"`
	IsActive    bool               `json:"isActive"`
	NextRun     time.Time          `json:"nextRun"`
	SplitPolicy SplitPolicy        `json:"splitPolicy"`
	AuditFields
}

// IsDue reports whether the template should produce a payment at now.
func (t RecurringTemplate) IsDue(now time.Time) bool {
	return t.IsActive && !t.NextRun.After(now)
}

// PendingDescription is the description of the PENDING transaction created
// when the template falls due.
func (t RecurringTemplate) PendingDescription() string {
	return "Recurring: " + t.Name
}
