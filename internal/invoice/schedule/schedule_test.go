package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

func entries(percentages ...float64) []domain.PaymentScheduleEntry {
	out := make([]domain.PaymentScheduleEntry, len(percentages))
	for i, pct := range percentages {
		out[i] = domain.PaymentScheduleEntry{Percentage: pct}
	}
	return out
}

func TestTotalPercentageAndRemaining(t *testing.T) {
	s := entries(30, 60)
	assert.InDelta(t, 90, TotalPercentage(s), Epsilon)
	assert.InDelta(t, 10, Remaining(s), Epsilon)
	assert.InDelta(t, 100, Remaining(nil), Epsilon)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(entries(30, 60, 10)))
	assert.True(t, IsValid(nil))
	assert.False(t, IsValid(entries(60, 50)))

	// Floating point drift around exactly 100 must not flag the schedule.
	drift := entries(33.3, 33.3, 33.4)
	assert.True(t, IsValid(drift))
}

func TestClampEditedPercentage(t *testing.T) {
	// Existing entries sum to 70; an edit proposing 50 is capped at 30.
	s := entries(30, 40, 0)
	assert.InDelta(t, 30, ClampEditedPercentage(s, 2, 50), Epsilon)

	// Proposals within the allowance pass through.
	assert.InDelta(t, 25, ClampEditedPercentage(s, 2, 25), Epsilon)

	// Negative and NaN proposals floor at 0.
	assert.Equal(t, float64(0), ClampEditedPercentage(s, 2, -5))

	// Already over-allocated others leave no allowance.
	over := entries(80, 40, 0)
	assert.Equal(t, float64(0), ClampEditedPercentage(over, 2, 10))
}

func TestScenarioD_OverAllocation(t *testing.T) {
	s := entries(60, 50)
	assert.False(t, IsValid(s))

	firstOnly := entries(60)
	assert.InDelta(t, 40, Remaining(firstOnly), Epsilon)
	assert.InDelta(t, 40, ClampEditedPercentage(s, 1, 50), Epsilon)
}

func TestRecomputeAmounts(t *testing.T) {
	s := []domain.PaymentScheduleEntry{
		{ID: "1", Description: "Upon signing", Percentage: 30},
		{ID: "2", Description: "Upon delivery", Percentage: 60},
		{ID: "3", Description: "Upon acceptance", Percentage: 10},
	}

	out := RecomputeAmounts(s, 1070)
	assert.InDelta(t, 321, out[0].Amount, 1e-9)
	assert.InDelta(t, 642, out[1].Amount, 1e-9)
	assert.InDelta(t, 107, out[2].Amount, 1e-9)

	var sum float64
	for _, entry := range out {
		sum += entry.Amount
	}
	assert.InDelta(t, 1070, sum, 1e-6)

	// Input is not mutated.
	assert.Equal(t, float64(0), s[0].Amount)
}
