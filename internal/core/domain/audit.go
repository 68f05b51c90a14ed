package domain

import (
	"encoding/json"
	"time"
)

// AuditAction is the kind of change recorded in the audit log.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Audit entity types.
const (
	EntityTransaction       = "Transaction"
	EntityGoal              = "Goal"
	EntityRecurringTemplate = "RecurringTemplate"
	EntityGroup             = "Group"
	EntityGroupMember       = "GroupMember"
)

// AuditLog is an append-only record of a change to a group entity.
type AuditLog struct {
	AuditID    string          `json:"auditID"`
	GroupID    string          `json:"groupID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     AuditAction     `json:"action"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	UserID     string          `json:"userID"`
	ChangedAt  time.Time       `json:"changedAt"`
}
