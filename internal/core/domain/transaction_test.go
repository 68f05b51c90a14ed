package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string {
	return &s
}

func validTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID: "txn_123",
		GroupID:       "group_123",
		Amount:        10000,
		Description:   "Mercado",
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PayerID:       "user_a",
		CategoryID:    "cat_1",
		Type:          domain.TransactionExpense,
		Status:        domain.StatusCompleted,
		Splits: []domain.Split{
			{UserID: "user_a", Amount: 5000},
			{UserID: "user_b", Amount: 5000},
		},
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *domain.Transaction)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid completed transaction",
			mutate:  func(tx *domain.Transaction) {},
			wantErr: false,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = 0 },
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "missing description",
			mutate:  func(tx *domain.Transaction) { tx.Description = "" },
			wantErr: true,
			errMsg:  "description is required",
		},
		{
			name:    "unknown type",
			mutate:  func(tx *domain.Transaction) { tx.Type = "REFUND" },
			wantErr: true,
			errMsg:  "invalid transaction type",
		},
		{
			name:    "splits do not add up",
			mutate:  func(tx *domain.Transaction) { tx.Splits[1].Amount = 4999 },
			wantErr: true,
			errMsg:  "splits sum to 9999",
		},
		{
			name:    "negative split",
			mutate:  func(tx *domain.Transaction) { tx.Splits[0].Amount = 10001; tx.Splits[1].Amount = -1 },
			wantErr: true,
			errMsg:  "is negative",
		},
		{
			name: "duplicate split user",
			mutate: func(tx *domain.Transaction) {
				tx.Splits[1].UserID = "user_a"
			},
			wantErr: true,
			errMsg:  "more than one split",
		},
		{
			name: "pending transaction without splits",
			mutate: func(tx *domain.Transaction) {
				tx.Status = domain.StatusPending
				tx.Splits = nil
			},
			wantErr: false,
		},
		{
			name: "completed transaction without splits",
			mutate: func(tx *domain.Transaction) {
				tx.Splits = nil
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_ShareOf(t *testing.T) {
	tx := validTransaction()
	tx.Splits[0].Amount = 7000
	tx.Splits[1].Amount = 3000

	assert.Equal(t, int64(7000), tx.ShareOf("user_a"))
	assert.Equal(t, int64(3000), tx.ShareOf("user_b"))
	assert.Equal(t, int64(0), tx.ShareOf("user_c"))
	assert.Equal(t, int64(10000), tx.SplitTotal())
}

func TestTransaction_GoalContribution(t *testing.T) {
	tests := []struct {
		name     string
		txType   domain.TransactionType
		goalID   *string
		wantGoal string
		wantOK   bool
	}{
		{name: "saving with goal", txType: domain.TransactionSaving, goalID: stringPtr("goal_1"), wantGoal: "goal_1", wantOK: true},
		{name: "saving without goal", txType: domain.TransactionSaving, goalID: nil},
		{name: "expense with goal", txType: domain.TransactionExpense, goalID: stringPtr("goal_1")},
		{name: "saving with empty goal", txType: domain.TransactionSaving, goalID: stringPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tx.Type = tt.txType
			tx.GoalID = tt.goalID
			goalID, amount, ok := tx.GoalContribution()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantGoal, goalID)
			if ok {
				assert.Equal(t, tx.Amount, amount)
			}
		})
	}
}

func TestGroupRole_Satisfies(t *testing.T) {
	assert.True(t, domain.RoleOwner.Satisfies(domain.RoleAdmin))
	assert.True(t, domain.RoleAdmin.Satisfies(domain.RoleMember))
	assert.True(t, domain.RoleMember.Satisfies(domain.RoleMember))
	assert.False(t, domain.RoleMember.Satisfies(domain.RoleAdmin))
	assert.False(t, domain.RoleAdmin.Satisfies(domain.RoleOwner))
	assert.False(t, domain.RoleRemoved.Satisfies(domain.RoleMember))
}

func TestRecurringTemplate_IsDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tmpl := domain.RecurringTemplate{Name: "Arriendo", IsActive: true, NextRun: now}

	assert.True(t, tmpl.IsDue(now))
	assert.True(t, tmpl.IsDue(now.Add(time.Hour)))
	assert.False(t, tmpl.IsDue(now.Add(-time.Hour)))

	tmpl.IsActive = false
	assert.False(t, tmpl.IsDue(now))
	assert.Equal(t, "Recurring: Arriendo", tmpl.PendingDescription())
}

func TestGoal_ProgressPercent(t *testing.T) {
	assert.Equal(t, int64(50), domain.Goal{TargetAmount: 1000, CurrentAmount: 500}.ProgressPercent())
	assert.Equal(t, int64(33), domain.Goal{TargetAmount: 3, CurrentAmount: 1}.ProgressPercent())
	assert.Equal(t, int64(0), domain.Goal{TargetAmount: 0, CurrentAmount: 10}.ProgressPercent())
}
