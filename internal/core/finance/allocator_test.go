package finance_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/core/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(splits []domain.Split) []int64 {
	out := make([]int64, len(splits))
	for i, s := range splits {
		out[i] = s.Amount
	}
	return out
}

func sum(splits []domain.Split) int64 {
	var total int64
	for _, s := range splits {
		total += s.Amount
	}
	return total
}

func participants(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("user_%d", i)
	}
	return ids
}

func TestCalculateSplits_EqualScenario(t *testing.T) {
	got := finance.CalculateSplits(10000, domain.EqualSplit(), []string{"a", "b", "c"})
	assert.Equal(t, []int64{3334, 3333, 3333}, amounts(got))
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].UserID, got[1].UserID, got[2].UserID})
}

func TestCalculateSplits_EqualProperties(t *testing.T) {
	for _, total := range []int64{1, 2, 7, 99, 100, 10000, 123457} {
		for n := 1; n <= 7; n++ {
			got := finance.CalculateSplits(total, domain.EqualSplit(), participants(n))
			require.Len(t, got, n)
			assert.Equal(t, total, sum(got), "total=%d n=%d", total, n)

			share := total / int64(n)
			remainder := total % int64(n)
			for i, s := range got {
				if int64(i) < remainder {
					assert.Equal(t, share+1, s.Amount)
				} else {
					assert.Equal(t, share, s.Amount)
				}
				assert.Nil(t, s.Percentage)
			}
		}
	}
}

func TestCalculateSplits_SingleAssignee(t *testing.T) {
	got := finance.CalculateSplits(4500, domain.SingleAssignee("b"), []string{"a", "b", "c"})
	require.Len(t, got, 3)
	assert.Equal(t, []int64{0, 4500, 0}, amounts(got))

	nonZero := 0
	for _, s := range got {
		if s.Amount != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestCalculateSplits_CustomScenario(t *testing.T) {
	policy := domain.CustomSplit(map[string]float64{"A": 33, "B": 33, "C": 34})
	got := finance.CalculateSplits(9999, policy, []string{"A", "B", "C"})
	assert.Equal(t, []int64{3300, 3300, 3399}, amounts(got))
	require.NotNil(t, got[2].Percentage)
	assert.Equal(t, 34.0, *got[2].Percentage)
}

func TestCalculateSplits_CustomResidualAlwaysReconstructsTotal(t *testing.T) {
	cases := []map[string]float64{
		{"a": 33.3, "b": 33.3, "c": 33.4},
		{"a": 50, "b": 50},
		{"a": 12.5, "b": 87.5},
		{"a": 0, "b": 100},
		{"a": 100, "b": 0},
		{"a": 10, "b": 10, "c": 10},
	}
	for _, pcts := range cases {
		for _, total := range []int64{1, 3, 101, 9999, 10001} {
			ids := make([]string, 0, len(pcts))
			for _, id := range []string{"a", "b", "c"} {
				if _, ok := pcts[id]; ok {
					ids = append(ids, id)
				}
			}
			got := finance.CalculateSplits(total, domain.CustomSplit(pcts), ids)
			assert.Equal(t, total, sum(got), "pcts=%v total=%d", pcts, total)
		}
	}
}

func TestCalculateSplits_CustomClampsPercentages(t *testing.T) {
	policy := domain.CustomSplit(map[string]float64{"a": -20, "b": math.NaN(), "c": 100})
	got := finance.CalculateSplits(1000, policy, []string{"a", "b", "c"})
	assert.Equal(t, []int64{0, 0, 1000}, amounts(got))
	assert.Equal(t, 0.0, *got[0].Percentage)
	assert.Equal(t, 0.0, *got[1].Percentage)

	over := domain.CustomSplit(map[string]float64{"a": 150, "b": 0})
	got = finance.CalculateSplits(1000, over, []string{"a", "b"})
	assert.Equal(t, []int64{1000, 0}, amounts(got))
}

func TestCalculateSplits_CustomOverHundredKeepsResidualRule(t *testing.T) {
	policy := domain.CustomSplit(map[string]float64{"a": 70, "b": 70})
	got := finance.CalculateSplits(1000, policy, []string{"a", "b"})
	assert.Equal(t, []int64{700, 300}, amounts(got))

	policy = domain.CustomSplit(map[string]float64{"a": 70, "b": 70, "c": 0})
	got = finance.CalculateSplits(1000, policy, []string{"a", "b", "c"})
	assert.Equal(t, []int64{700, 700, -400}, amounts(got))
	assert.Equal(t, int64(1000), sum(got))
}

func TestCalculateSplits_NoParticipants(t *testing.T) {
	assert.Empty(t, finance.CalculateSplits(1000, domain.EqualSplit(), nil))
	assert.Empty(t, finance.CalculateSplits(1000, domain.SingleAssignee("a"), []string{}))
}

func TestValidatePolicy(t *testing.T) {
	members := []string{"a", "b"}
	tests := []struct {
		name    string
		policy  domain.SplitPolicy
		members []string
		wantErr bool
	}{
		{name: "equal", policy: domain.EqualSplit(), members: members},
		{name: "no participants", policy: domain.EqualSplit(), members: nil, wantErr: true},
		{name: "assignee is member", policy: domain.SingleAssignee("b"), members: members},
		{name: "assignee not member", policy: domain.SingleAssignee("z"), members: members, wantErr: true},
		{name: "custom exactly 100", policy: domain.CustomSplit(map[string]float64{"a": 40, "b": 60}), members: members},
		{name: "custom under 100", policy: domain.CustomSplit(map[string]float64{"a": 40}), members: members},
		{name: "custom over 100", policy: domain.CustomSplit(map[string]float64{"a": 70, "b": 70}), members: members, wantErr: true},
		{name: "custom unknown user", policy: domain.CustomSplit(map[string]float64{"z": 100}), members: members, wantErr: true},
		{name: "custom clamped to 100", policy: domain.CustomSplit(map[string]float64{"a": 150, "b": -20}), members: members},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := finance.ValidatePolicy(tt.policy, tt.members)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBalanceTwoWay(t *testing.T) {
	tests := []struct {
		in        float64
		wantSelf  float64
		wantOther float64
	}{
		{in: 60, wantSelf: 60, wantOther: 40},
		{in: 33.33, wantSelf: 33.33, wantOther: 66.7},
		{in: -5, wantSelf: 0, wantOther: 100},
		{in: 120, wantSelf: 100, wantOther: 0},
		{in: math.NaN(), wantSelf: 0, wantOther: 100},
	}
	for _, tt := range tests {
		self, other := finance.BalanceTwoWay(tt.in)
		assert.Equal(t, tt.wantSelf, self)
		assert.InDelta(t, tt.wantOther, other, 1e-9)
	}
}

func TestCompleteTwoWay(t *testing.T) {
	pair := []string{"a", "b"}
	tests := []struct {
		name         string
		policy       domain.SplitPolicy
		participants []string
		want         map[string]float64
	}{
		{name: "first given", policy: domain.CustomSplit(map[string]float64{"a": 60}), participants: pair, want: map[string]float64{"a": 60, "b": 40}},
		{name: "second given", policy: domain.CustomSplit(map[string]float64{"b": 33.33}), participants: pair, want: map[string]float64{"a": 66.7, "b": 33.33}},
		{name: "clamped", policy: domain.CustomSplit(map[string]float64{"a": 130}), participants: pair, want: map[string]float64{"a": 100, "b": 0}},
		{name: "both given", policy: domain.CustomSplit(map[string]float64{"a": 20, "b": 20}), participants: pair, want: map[string]float64{"a": 20, "b": 20}},
		{name: "three participants", policy: domain.CustomSplit(map[string]float64{"a": 50}), participants: []string{"a", "b", "c"}, want: map[string]float64{"a": 50}},
		{name: "unknown user", policy: domain.CustomSplit(map[string]float64{"z": 50}), participants: pair, want: map[string]float64{"z": 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.CompleteTwoWay(tt.policy, tt.participants)
			require.Len(t, got.Percentages, len(tt.want))
			for id, pct := range tt.want {
				assert.InDelta(t, pct, got.Percentages[id], 1e-9, id)
			}
		})
	}

	equal := finance.CompleteTwoWay(domain.EqualSplit(), pair)
	assert.Equal(t, domain.EqualSplit(), equal)
}
