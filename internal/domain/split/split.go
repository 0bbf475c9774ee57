// Package split computes per-participant bill shares and per-bucket
// expense allocations. Everything here is pure: callers resolve entities
// and persist results.
package split

import (
	"errors"
	"fmt"

	"fintrack-go/internal/money"
)

var (
	ErrNoParticipants     = errors.New("bill needs at least one participant")
	ErrShareCountMismatch = errors.New("share inputs do not match participant count")
	ErrManualSumMismatch  = errors.New("manual amounts do not sum to the expense amount")
	ErrMissingAmounts     = errors.New("manual distribution requires an amount per bucket")
)

// BillSplitType selects how a bill total is divided across participants.
type BillSplitType string

const (
	SplitEqual      BillSplitType = "equal"
	SplitPercentage BillSplitType = "percentage"
	SplitManual     BillSplitType = "manual"
)

func ParseBillSplitType(value string) (BillSplitType, error) {
	switch BillSplitType(value) {
	case SplitEqual, SplitPercentage, SplitManual:
		return BillSplitType(value), nil
	}
	return "", fmt.Errorf("unknown split type %q", value)
}

// DistributionType selects how one expense amount is allocated across
// linked buckets (budgets or savings goals).
type DistributionType string

const (
	DistributionNone       DistributionType = "none"
	DistributionManual     DistributionType = "manual"
	DistributionEqualSplit DistributionType = "equal_split"
	DistributionHalf       DistributionType = "half"
)

func ParseDistributionType(value string) (DistributionType, error) {
	if value == "" {
		return DistributionNone, nil
	}
	switch DistributionType(value) {
	case DistributionNone, DistributionManual, DistributionEqualSplit, DistributionHalf:
		return DistributionType(value), nil
	}
	return "", fmt.Errorf("unknown distribution type %q", value)
}

// ShareInput carries the per-policy inputs for BillShares. Participants is
// the resolved participant count with the creator included. Percentages and
// Amounts hold one entry per explicitly named participant; when the creator
// was auto-appended as the final participant their entry is absent and
// their share absorbs the remainder.
type ShareInput struct {
	Participants    int
	Percentages     []float64
	Amounts         []money.Money
	CreatorAppended bool
}

// BillShares returns one owed amount per participant, in participant order.
// For every policy the returned amounts sum exactly to total whenever a
// remainder absorber exists (equal split always; percentage/manual when the
// creator was auto-appended or, for percentage, via the final named share).
func BillShares(t BillSplitType, total money.Money, in ShareInput) ([]money.Money, error) {
	if in.Participants <= 0 {
		return nil, ErrNoParticipants
	}

	switch t {
	case SplitEqual:
		return total.Split(in.Participants), nil
	case SplitPercentage:
		return percentageShares(total, in)
	case SplitManual:
		return manualShares(total, in)
	}
	return nil, fmt.Errorf("unknown split type %q", t)
}

func percentageShares(total money.Money, in ShareInput) ([]money.Money, error) {
	named := namedCount(in)
	if len(in.Percentages) != named {
		return nil, ErrShareCountMismatch
	}

	shares := make([]money.Money, 0, in.Participants)
	for _, pct := range in.Percentages {
		shares = append(shares, total.Percent(pct))
	}

	if in.CreatorAppended {
		remainder := total - money.Sum(shares)
		if remainder < 0 {
			remainder = 0
		}
		return append(shares, remainder), nil
	}

	// Fully specified: the final share absorbs rounding drift so the set
	// still sums to total.
	if named > 0 {
		last := total - money.Sum(shares[:named-1])
		if last < 0 {
			last = 0
		}
		shares[named-1] = last
	}
	return shares, nil
}

func manualShares(total money.Money, in ShareInput) ([]money.Money, error) {
	named := namedCount(in)
	if len(in.Amounts) != named {
		return nil, ErrShareCountMismatch
	}

	shares := make([]money.Money, named)
	copy(shares, in.Amounts)

	if in.CreatorAppended {
		remainder := total - money.Sum(shares)
		if remainder < 0 {
			remainder = 0
		}
		shares = append(shares, remainder)
	}
	return shares, nil
}

func namedCount(in ShareInput) int {
	if in.CreatorAppended {
		return in.Participants - 1
	}
	return in.Participants
}

// Allocations returns the amount each selected bucket receives from one
// expense. A single selected bucket always receives the full amount no
// matter which policy was requested. Under equal_split every bucket claims
// the full amount; the buckets' combined claims exceeding the expense total
// is intended accounting behavior, not an error.
func Allocations(t DistributionType, amount money.Money, manual []money.Money, buckets int) ([]money.Money, error) {
	if buckets == 0 || t == DistributionNone {
		return nil, nil
	}

	if buckets == 1 {
		return []money.Money{amount}, nil
	}

	switch t {
	case DistributionManual:
		if len(manual) != buckets {
			return nil, ErrMissingAmounts
		}
		// Tolerance is below one minor unit, so in integer cents the sum
		// must match exactly.
		if money.Sum(manual) != amount {
			return nil, ErrManualSumMismatch
		}
		out := make([]money.Money, buckets)
		copy(out, manual)
		return out, nil
	case DistributionEqualSplit:
		out := make([]money.Money, buckets)
		for i := range out {
			out[i] = amount
		}
		return out, nil
	case DistributionHalf:
		out := make([]money.Money, buckets)
		for i := range out {
			out[i] = amount.Half()
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown distribution type %q", t)
}
