package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference, or a system actor name
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// SystemActor is recorded as creator for records produced by background jobs.
const SystemActor = "SYSTEM"

// WhatsAppActor is recorded as creator for records produced by the WhatsApp webhook.
const WhatsAppActor = "WhatsApp Bot"

// NewAuditFields returns audit fields stamped with the same actor and time.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}
