package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-go/internal/money"
)

func TestBillSharesEqualExactSum(t *testing.T) {
	total := money.Money(10000) // 100.00 across 3 people
	shares, err := BillShares(SplitEqual, total, ShareInput{Participants: 3})
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, total, money.Sum(shares))
	for _, s := range shares {
		assert.InDelta(t, 3333, int64(s), 1)
	}
}

func TestBillSharesPercentageCreatorAppended(t *testing.T) {
	total := money.Money(20000) // 200.00, named [60,40], creator auto-added
	shares, err := BillShares(SplitPercentage, total, ShareInput{
		Participants:    3,
		Percentages:     []float64{60, 40},
		CreatorAppended: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []money.Money{12000, 8000, 0}, shares)
	assert.Equal(t, total, money.Sum(shares))
}

func TestBillSharesPercentageCreatorRemainderClamped(t *testing.T) {
	shares, err := BillShares(SplitPercentage, money.Money(10000), ShareInput{
		Participants:    3,
		Percentages:     []float64{70, 50}, // named shares exceed the total
		CreatorAppended: true,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), shares[2])
}

func TestBillSharesPercentageFullySpecifiedSumsExactly(t *testing.T) {
	total := money.Money(10000)
	shares, err := BillShares(SplitPercentage, total, ShareInput{
		Participants: 3,
		Percentages:  []float64{100.0 / 3, 100.0 / 3, 100.0 / 3},
	})
	require.NoError(t, err)
	assert.Equal(t, total, money.Sum(shares))
}

func TestBillSharesManualCreatorAppended(t *testing.T) {
	shares, err := BillShares(SplitManual, money.Money(10000), ShareInput{
		Participants:    3,
		Amounts:         []money.Money{3000, 4500},
		CreatorAppended: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []money.Money{3000, 4500, 2500}, shares)
}

func TestBillSharesCountMismatch(t *testing.T) {
	_, err := BillShares(SplitPercentage, money.Money(100), ShareInput{
		Participants: 3,
		Percentages:  []float64{50},
	})
	assert.ErrorIs(t, err, ErrShareCountMismatch)

	_, err = BillShares(SplitManual, money.Money(100), ShareInput{
		Participants: 2,
		Amounts:      []money.Money{100, 100, 100},
	})
	assert.ErrorIs(t, err, ErrShareCountMismatch)
}

func TestBillSharesNoParticipants(t *testing.T) {
	_, err := BillShares(SplitEqual, money.Money(100), ShareInput{})
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestAllocationsSingleBucketGetsFullAmount(t *testing.T) {
	for _, dt := range []DistributionType{DistributionManual, DistributionEqualSplit, DistributionHalf} {
		out, err := Allocations(dt, money.Money(4000), nil, 1)
		require.NoError(t, err, "type %s", dt)
		assert.Equal(t, []money.Money{4000}, out, "type %s", dt)
	}
}

func TestAllocationsEqualSplitEachBucketClaimsFullAmount(t *testing.T) {
	out, err := Allocations(DistributionEqualSplit, money.Money(4000), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []money.Money{4000, 4000}, out)
}

func TestAllocationsHalf(t *testing.T) {
	out, err := Allocations(DistributionHalf, money.Money(4000), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []money.Money{2000, 2000}, out)
}

func TestAllocationsManual(t *testing.T) {
	out, err := Allocations(DistributionManual, money.Money(10000), []money.Money{3000, 7000}, 2)
	require.NoError(t, err)
	assert.Equal(t, []money.Money{3000, 7000}, out)
}

func TestAllocationsManualSumMismatchRejected(t *testing.T) {
	// amounts [30,60] against a 100.00 expense
	_, err := Allocations(DistributionManual, money.Money(10000), []money.Money{3000, 6000}, 2)
	assert.ErrorIs(t, err, ErrManualSumMismatch)
}

func TestAllocationsManualMissingAmounts(t *testing.T) {
	_, err := Allocations(DistributionManual, money.Money(10000), []money.Money{10000}, 2)
	assert.ErrorIs(t, err, ErrMissingAmounts)
}

func TestAllocationsNone(t *testing.T) {
	out, err := Allocations(DistributionNone, money.Money(100), nil, 3)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParseTypes(t *testing.T) {
	st, err := ParseBillSplitType("percentage")
	require.NoError(t, err)
	assert.Equal(t, SplitPercentage, st)

	_, err = ParseBillSplitType("weighted")
	assert.Error(t, err)

	dt, err := ParseDistributionType("")
	require.NoError(t, err)
	assert.Equal(t, DistributionNone, dt)

	_, err = ParseDistributionType("thirds")
	assert.Error(t, err)
}
