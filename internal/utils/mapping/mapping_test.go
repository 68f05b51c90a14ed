package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMapping_NullableColumns(t *testing.T) {
	empty := ""
	goal := "goal-1"
	pct := 40.0
	d := domain.Transaction{
		TransactionID: "tx-1",
		GoalID:        &goal,
		TemplateID:    &empty,
		Splits:        []domain.Split{{UserID: "u1", Amount: 400, Percentage: &pct}, {UserID: "u2", Amount: 600}},
	}

	m := ToModelTransaction(d)
	assert.True(t, m.GoalID.Valid)
	assert.False(t, m.TemplateID.Valid, "empty template id is stored as NULL")

	rows := ToModelSplits(d.TransactionID, d.Splits)
	require.Len(t, rows, 2)
	assert.Equal(t, "tx-1", rows[1].TransactionID)
	assert.False(t, rows[1].Percentage.Valid)

	back := ToDomainTransaction(m, rows)
	require.NotNil(t, back.GoalID)
	assert.Equal(t, goal, *back.GoalID)
	assert.Nil(t, back.TemplateID)
	require.NotNil(t, back.Splits[0].Percentage)
	assert.Equal(t, 40.0, *back.Splits[0].Percentage)
	assert.Nil(t, back.Splits[1].Percentage)
}

func TestRecurringTemplateMapping_Policy(t *testing.T) {
	d := domain.RecurringTemplate{
		TemplateID:  "tpl-1",
		SplitPolicy: domain.CustomSplit(map[string]float64{"u1": 60, "u2": 40}),
		NextRun:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	m, err := ToModelRecurringTemplate(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"CUSTOM","percentages":{"u1":60,"u2":40}}`, string(m.SplitPolicy))

	back, err := ToDomainRecurringTemplate(m)
	require.NoError(t, err)
	assert.Equal(t, d.SplitPolicy, back.SplitPolicy)

	back, err = ToDomainRecurringTemplate(models.RecurringTemplate{TemplateID: "tpl-2"})
	require.NoError(t, err)
	assert.Equal(t, domain.SplitAll, back.SplitPolicy.Kind)

	_, err = ToDomainRecurringTemplate(models.RecurringTemplate{TemplateID: "tpl-3", SplitPolicy: []byte(`{"type":"WHATEVER"}`)})
	assert.Error(t, err)
}

func TestUserMapping_RefreshToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	d := domain.User{UserID: "u1", RefreshTokenHash: "abc", RefreshTokenExpiryTime: &expiry}
	back := ToDomainUser(ToModelUser(d))
	assert.Equal(t, "abc", back.RefreshTokenHash)
	require.NotNil(t, back.RefreshTokenExpiryTime)
	assert.True(t, expiry.Equal(*back.RefreshTokenExpiryTime))

	bare := ToModelUser(domain.User{UserID: "u2"})
	assert.False(t, bare.RefreshTokenHash.Valid)
	assert.False(t, bare.RefreshTokenExpiryTime.Valid)
}
