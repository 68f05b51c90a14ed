package domain

import "time"

// ParsedSplit is the split the assistant read from free text. Member
// references are names, not IDs.
type ParsedSplit struct {
	Type         SplitKind          `json:"type"`
	Percentages  map[string]float64 `json:"percentages,omitempty"` // member name -> percentage
	AssigneeName string             `json:"assigneeName,omitempty"`
}

// ParsedTransaction is a transaction extracted from a natural-language
// message. CategoryID is set when CategoryName matched a known category.
type ParsedTransaction struct {
	Amount       int64           `json:"amount"`
	Description  string          `json:"description"`
	CategoryName string          `json:"categoryName"`
	CategoryID   *string         `json:"categoryID,omitempty"`
	Date         string          `json:"date"` // YYYY-MM-DD
	PayerName    string          `json:"payerName"`
	Type         TransactionType `json:"type"`
	Split        *ParsedSplit    `json:"split,omitempty"`
}

// TransactionDraft is a parsed transaction with every name resolved to a
// group member or category, ready to be created.
type TransactionDraft struct {
	Amount      int64
	Description string
	Date        time.Time
	PayerID     string
	CategoryID  string
	Type        TransactionType
	SplitPolicy SplitPolicy
}

// SettlementStatement is the content of a printable balance statement.
type SettlementStatement struct {
	GroupName   string
	MemberName  string
	GeneratedAt time.Time
	Breakdown   BalanceBreakdown
}
