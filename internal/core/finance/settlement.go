// Package finance holds the pure money arithmetic of the application:
// settlement balances, split allocation and recurring due dates.
// Nothing here performs I/O or keeps state between calls.
package finance

import (
	"sort"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// impact is the signed effect of tx on userID's balance. The payer is owed
// what they fronted beyond their own share; everyone else owes their share.
func impact(userID string, tx domain.Transaction) int64 {
	share := tx.ShareOf(userID)
	if tx.PayerID == userID {
		return tx.Amount - share
	}
	return -share
}

// CalculateBalance returns userID's net balance over all completed
// transactions. Positive means the user is owed money.
func CalculateBalance(userID string, txns []domain.Transaction) int64 {
	var balance int64
	for _, tx := range txns {
		if !tx.IsCompleted() {
			continue
		}
		balance += impact(userID, tx)
	}
	return balance
}

// CalculateBalanceBreakdown returns the settlement balance between members
// together with the transactions behind it, newest first. Savings are not
// debts between members and are left out, as are pending transactions and
// transactions that do not move the user's balance.
func CalculateBalanceBreakdown(userID string, txns []domain.Transaction) domain.BalanceBreakdown {
	result := domain.BalanceBreakdown{Breakdown: []domain.BalanceEntry{}}

	for _, tx := range txns {
		if !tx.IsCompleted() || tx.Type == domain.TransactionSaving {
			continue
		}

		delta := impact(userID, tx)
		if delta == 0 {
			continue
		}
		result.Balance += delta

		entry := domain.BalanceEntry{
			TransactionID: tx.TransactionID,
			Description:   tx.Description,
			Date:          tx.Date,
			Amount:        delta,
			Type:          domain.EntryOwed,
		}
		if delta < 0 {
			entry.Amount = -delta
			entry.Type = domain.EntryOwe
		}
		result.Breakdown = append(result.Breakdown, entry)
	}

	sort.SliceStable(result.Breakdown, func(i, j int) bool {
		return result.Breakdown[i].Date.After(result.Breakdown[j].Date)
	})
	return result
}
