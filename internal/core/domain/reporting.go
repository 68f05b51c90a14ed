package domain

import "time"

// BalanceEntryType tags a breakdown line from the viewer's perspective.
type BalanceEntryType string

const (
	EntryOwe  BalanceEntryType = "OWE"  // the viewer owes this amount
	EntryOwed BalanceEntryType = "OWED" // the viewer is owed this amount
)

// BalanceEntry is one transaction's non-zero contribution to a balance.
type BalanceEntry struct {
	TransactionID string           `json:"id"`
	Description   string           `json:"description"`
	Date          time.Time        `json:"date"`
	Amount        int64            `json:"amount"` // magnitude, never negative
	Type          BalanceEntryType `json:"type"`
}

// BalanceBreakdown is a signed settlement balance with the lines behind it.
// A positive balance means the user is owed money.
type BalanceBreakdown struct {
	Balance   int64          `json:"balance"`
	Breakdown []BalanceEntry `json:"breakdown"`
}

// BalanceStatus describes the sign of a balance in words.
func BalanceStatus(balance int64) string {
	switch {
	case balance > 0:
		return "Te deben dinero"
	case balance < 0:
		return "Debes dinero"
	}
	return "Están a mano"
}

// CategoryTotal is the amount spent in one category over a period.
type CategoryTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// LargeTransaction summarises one of the biggest expenses of a period.
type LargeTransaction struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"` // YYYY-MM-DD
}

// GoalProgress is the saved/target pair of a goal for reports.
type GoalProgress struct {
	Name    string `json:"name"`
	Current int64  `json:"current"`
	Target  int64  `json:"target"`
}

// SpendingSummary is the data a financial report narrative is built from.
type SpendingSummary struct {
	TotalSpent        int64              `json:"totalSpent"`
	TopCategories     []CategoryTotal    `json:"topCategories"`
	LargeTransactions []LargeTransaction `json:"largeTransactions"`
	Balance           int64              `json:"balance"`
	BalanceStatus     string             `json:"balanceStatus"`
	Goals             []GoalProgress     `json:"goals"`
}

// FinancialReport is the result of report generation.
type FinancialReport struct {
	Summary   SpendingSummary `json:"summary"`
	Narrative string          `json:"report"`
}
