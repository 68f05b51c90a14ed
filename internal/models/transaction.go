package models

import (
	"database/sql"
	"time"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID string         `db:"transaction_id"`
	GroupID       string         `db:"group_id"`
	Amount        int64          `db:"amount"`
	Description   string         `db:"description"`
	Date          time.Time      `db:"date"`
	PayerID       string         `db:"payer_id"`
	CategoryID    string         `db:"category_id"`
	GoalID        sql.NullString `db:"goal_id"`
	TemplateID    sql.NullString `db:"template_id"`
	Type          string         `db:"type"`
	Status        string         `db:"status"`
	AuditFields
}

// Split represents a row of the transaction_splits table.
type Split struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Amount        int64           `db:"amount"`
	Percentage    sql.NullFloat64 `db:"percentage"`
}
