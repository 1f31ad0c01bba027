// Package schedule enforces the payment-schedule invariant: installment
// percentages never exceed 100 in aggregate. Over-allocation is a reported
// condition, never an error; the caller decides whether to block export.
package schedule

import (
	"math"

	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

// Epsilon absorbs floating-point noise when comparing percentage sums
// against 100.
const Epsilon = 1e-9

// TotalPercentage sums all entry percentages.
func TotalPercentage(entries []domain.PaymentScheduleEntry) float64 {
	var sum float64
	for _, entry := range entries {
		sum += entry.Percentage
	}
	return sum
}

// Remaining is the unallocated percentage, possibly negative.
func Remaining(entries []domain.PaymentScheduleEntry) float64 {
	return 100 - TotalPercentage(entries)
}

// IsValid reports whether the aggregate stays within 100%, tolerating
// floating-point drift.
func IsValid(entries []domain.PaymentScheduleEntry) bool {
	return TotalPercentage(entries) <= 100+Epsilon
}

// ClampEditedPercentage caps a single edit so the aggregate invariant holds
// without a global re-validation pass: the result is min(proposed,
// 100 - sum of the other entries), floored at 0. An over-large input is
// silently truncated in favor of an uninterrupted editing flow.
func ClampEditedPercentage(entries []domain.PaymentScheduleEntry, editedIndex int, proposed float64) float64 {
	if math.IsNaN(proposed) || proposed < 0 {
		return 0
	}

	var others float64
	for i, entry := range entries {
		if i == editedIndex {
			continue
		}
		others += entry.Percentage
	}

	allowed := 100 - others
	if allowed < 0 {
		allowed = 0
	}
	return math.Min(proposed, allowed)
}

// RecomputeAmounts derives every entry amount from the grand total. Called
// whenever the total or any percentage changes.
func RecomputeAmounts(entries []domain.PaymentScheduleEntry, grandTotal float64) []domain.PaymentScheduleEntry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]domain.PaymentScheduleEntry, len(entries))
	for i, entry := range entries {
		entry.Amount = grandTotal * entry.Percentage / 100
		out[i] = entry
	}
	return out
}
