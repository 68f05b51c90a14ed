package domain

import "time"

// Alert is a user-facing notification stored for a group.
type Alert struct {
	AlertID   string    `json:"alertID"`
	GroupID   string    `json:"groupID"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecurringDueAlertTitle is the title of alerts raised for due templates.
const RecurringDueAlertTitle = "Recurring Payment Due"

// RecurringDueAlertMessage builds the alert body for a due template.
func RecurringDueAlertMessage(templateName string) string {
	return "Payment for " + templateName + " is due. Please confirm calculated amount."
}
