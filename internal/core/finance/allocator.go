package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrNoParticipants is returned by ValidatePolicy for an empty participant list.
var ErrNoParticipants = errors.New("split requires at least one participant")

var hundred = decimal.NewFromInt(100)

// BalanceTwoWay returns p and its complement for a two-member split that is
// being edited: both are clamped to [0, 100] and the complement is rounded
// to one decimal.
func BalanceTwoWay(p float64) (float64, float64) {
	p = domain.ClampPercentage(p)
	other := decimal.NewFromFloat(math.Max(0, 100-p)).Round(1).InexactFloat64()
	return p, other
}

// CompleteTwoWay fills in the missing share of a CUSTOM policy over exactly
// two participants when only one percentage is given. Any other policy is
// returned unchanged.
func CompleteTwoWay(policy domain.SplitPolicy, participants []string) domain.SplitPolicy {
	if policy.Kind != domain.SplitCustom || len(participants) != 2 || len(policy.Percentages) != 1 {
		return policy
	}
	var given, missing string
	for _, id := range participants {
		if _, ok := policy.Percentages[id]; ok {
			given = id
		} else {
			missing = id
		}
	}
	if given == "" || missing == "" {
		return policy
	}
	self, other := BalanceTwoWay(policy.Percentages[given])
	return domain.CustomSplit(map[string]float64{given: self, missing: other})
}

// ValidatePolicy checks that policy can be applied to participants. Custom
// percentages may not exceed 100 in total, since the residual share of the
// last participant would otherwise turn negative.
func ValidatePolicy(policy domain.SplitPolicy, participants []string) error {
	if len(participants) == 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNoParticipants)
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	known := make(map[string]struct{}, len(participants))
	for _, id := range participants {
		known[id] = struct{}{}
	}

	switch policy.Kind {
	case domain.SplitOnePerson:
		if _, ok := known[policy.AssigneeID]; !ok {
			return fmt.Errorf("%w: assignee %s is not a participant", apperrors.ErrValidation, policy.AssigneeID)
		}
	case domain.SplitCustom:
		for userID := range policy.Percentages {
			if _, ok := known[userID]; !ok {
				return fmt.Errorf("%w: user %s in percentages is not a participant", apperrors.ErrValidation, userID)
			}
		}
		if total := policy.PercentageTotal(); total > 100+1e-9 {
			return fmt.Errorf("%w: percentages add up to %.2f, more than 100", apperrors.ErrValidation, total)
		}
	}
	return nil
}

// CalculateSplits divides total between participants according to policy.
// The result has one entry per participant, in input order, and always sums
// to total. An empty participant list yields no splits.
//
// For ONE_PERSON the assignee must be one of the participants; ValidatePolicy
// checks that.
func CalculateSplits(total int64, policy domain.SplitPolicy, participants []string) []domain.Split {
	if len(participants) == 0 {
		return nil
	}

	switch policy.Kind {
	case domain.SplitOnePerson:
		return singleAssigneeSplits(total, policy.AssigneeID, participants)
	case domain.SplitCustom:
		return customSplits(total, policy.Percentages, participants)
	default:
		return equalSplits(total, participants)
	}
}

// equalSplits gives everyone floor(total/n); the first total mod n
// participants get one extra unit.
func equalSplits(total int64, participants []string) []domain.Split {
	n := int64(len(participants))
	share := total / n
	remainder := total % n

	splits := make([]domain.Split, len(participants))
	for i, userID := range participants {
		amount := share
		if int64(i) < remainder {
			amount++
		}
		splits[i] = domain.Split{UserID: userID, Amount: amount}
	}
	return splits
}

func singleAssigneeSplits(total int64, assigneeID string, participants []string) []domain.Split {
	splits := make([]domain.Split, len(participants))
	for i, userID := range participants {
		splits[i] = domain.Split{UserID: userID}
		if userID == assigneeID {
			splits[i].Amount = total
		}
	}
	return splits
}

// customSplits rounds each participant's percentage share half away from
// zero, except the last participant who takes whatever is left.
func customSplits(total int64, percentages map[string]float64, participants []string) []domain.Split {
	splits := make([]domain.Split, len(participants))
	totalDec := decimal.NewFromInt(total)
	var allocated int64

	last := len(participants) - 1
	for i, userID := range participants {
		pct := domain.ClampPercentage(percentages[userID])
		splits[i] = domain.Split{UserID: userID, Percentage: &pct}
		if i == last {
			splits[i].Amount = total - allocated
			break
		}
		amount := totalDec.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(0).IntPart()
		splits[i].Amount = amount
		allocated += amount
	}
	return splits
}
