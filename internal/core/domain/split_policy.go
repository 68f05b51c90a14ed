package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
)

// SplitKind selects how an amount is divided between participants.
type SplitKind string

const (
	SplitAll       SplitKind = "ALL"        // equal shares
	SplitOnePerson SplitKind = "ONE_PERSON" // one assignee carries the full amount
	SplitCustom    SplitKind = "CUSTOM"     // per-member percentages
)

// IsValid reports whether k is a known split kind.
func (k SplitKind) IsValid() bool {
	return k == SplitAll || k == SplitOnePerson || k == SplitCustom
}

// SplitPolicy is a decoded allocation policy. Exactly the fields relevant to
// Kind are populated: AssigneeID for ONE_PERSON, Percentages for CUSTOM.
type SplitPolicy struct {
	Kind        SplitKind          `json:"type"`
	AssigneeID  string             `json:"assigneeID,omitempty"`
	Percentages map[string]float64 `json:"percentages,omitempty"`
}

// EqualSplit returns the ALL policy.
func EqualSplit() SplitPolicy {
	return SplitPolicy{Kind: SplitAll}
}

// SingleAssignee returns a ONE_PERSON policy for userID.
func SingleAssignee(userID string) SplitPolicy {
	return SplitPolicy{Kind: SplitOnePerson, AssigneeID: userID}
}

// CustomSplit returns a CUSTOM policy over the given userID -> percentage map.
func CustomSplit(percentages map[string]float64) SplitPolicy {
	return SplitPolicy{Kind: SplitCustom, Percentages: percentages}
}

// ClampPercentage bounds p to [0, 100]. NaN becomes 0.
func ClampPercentage(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// PercentageTotal sums the custom percentages, each clamped to [0, 100].
func (p SplitPolicy) PercentageTotal() float64 {
	var total float64
	for _, pct := range p.Percentages {
		total += ClampPercentage(pct)
	}
	return total
}

// Validate checks that the policy is internally consistent.
func (p SplitPolicy) Validate() error {
	switch p.Kind {
	case SplitAll:
		return nil
	case SplitOnePerson:
		if p.AssigneeID == "" {
			return fmt.Errorf("%w: ONE_PERSON split requires an assignee", apperrors.ErrValidation)
		}
		return nil
	case SplitCustom:
		if len(p.Percentages) == 0 {
			return fmt.Errorf("%w: CUSTOM split requires percentages", apperrors.ErrValidation)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown split type %q", apperrors.ErrValidation, p.Kind)
}

// UnmarshalJSON decodes and validates a policy. An empty object or missing
// type decodes to the ALL policy.
func (p *SplitPolicy) UnmarshalJSON(data []byte) error {
	type rawPolicy SplitPolicy
	var raw rawPolicy
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: malformed split policy: %v", apperrors.ErrValidation, err)
	}
	if raw.Kind == "" {
		raw.Kind = SplitAll
	}
	decoded := SplitPolicy(raw)
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}
