// Package pipeline drives an invoice draft through normalize, compute and
// validate to a finalized, immutable record. Every run is a full
// re-derivation from the draft snapshot; derived fields are never patched
// incrementally, so a stale total can never survive an edit.
package pipeline

import (
	"errors"
	"math"
	"strings"

	"github.com/weehong/resetrix-invoice/internal/currency"
	"github.com/weehong/resetrix-invoice/internal/invoice/calc"
	"github.com/weehong/resetrix-invoice/internal/invoice/column"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
	"github.com/weehong/resetrix-invoice/internal/invoice/schedule"
)

// State names the pipeline stages an invoice moves through.
type State string

const (
	StateDraft      State = "draft"
	StateNormalized State = "normalized"
	StateComputed   State = "computed"
	StateValidated  State = "validated"
	StateFinalized  State = "finalized"
)

// Draft-acceptance failures. These reject the input outright; the pipeline
// does not attempt partial recovery of a malformed record.
var (
	ErrMissingInvoiceNumber = errors.New("missing_invoice_number")

	// ErrScheduleOverAllocated blocks only the finalize transition;
	// editing continues while a schedule is over-allocated.
	ErrScheduleOverAllocated = errors.New("schedule_over_allocated")
)

// Result is a fully re-derived record plus its validation outcome. State is
// StateValidated when the schedule invariant holds, otherwise StateComputed
// with ScheduleValid false.
type Result struct {
	Record        domain.Invoice
	State         State
	ScheduleValid bool
}

// Run accepts a draft, normalizes columns and items, recomputes every
// derived field and validates the payment schedule. Shape errors are the
// only failure mode; an over-allocated schedule is reported through the
// result, not an error.
func Run(draft domain.Invoice) (Result, error) {
	if strings.TrimSpace(draft.InvoiceNumber) == "" {
		return Result{}, ErrMissingInvoiceNumber
	}

	rec := draft.Clone()

	// Normalize: column set, item custom fields, currency, rates.
	if len(rec.Columns) == 0 {
		rec.Columns = column.Defaults()
	}
	rec.Columns = column.Sorted(rec.Columns)
	if !currency.IsValidCode(rec.Currency) {
		rec.Currency = currency.DefaultCode
	}
	rec.Items = column.Conform(rec.Items, rec.Columns)
	rec.Tax.Rate = clamp(rec.Tax.Rate, 0, 1)
	if rec.Discount != nil {
		rec.Discount.Rate = clamp(rec.Discount.Rate, 0, 100)
	}

	// Compute: item totals first, then the derivation chain on top.
	for i := range rec.Items {
		rec.Items[i].Total = calc.ItemTotal(rec.Items[i].Quantity, rec.Items[i].UnitPrice)
	}
	rec.Subtotal = calc.Subtotal(rec.Items)
	rec.Tax.Amount = calc.Tax(rec.Subtotal, rec.Tax)
	var discountAmount float64
	if rec.Discount != nil {
		discountAmount = calc.Discount(rec.Subtotal, rec.Discount)
		rec.Discount.Amount = discountAmount
	}
	rec.Total = calc.GrandTotal(rec.Subtotal, rec.Tax.Amount, discountAmount)
	rec.PaymentSchedule = schedule.RecomputeAmounts(rec.PaymentSchedule, rec.Total)

	// Validate: the schedule invariant is the only gate.
	if !schedule.IsValid(rec.PaymentSchedule) {
		return Result{Record: rec, State: StateComputed, ScheduleValid: false}, nil
	}
	return Result{Record: rec, State: StateValidated, ScheduleValid: true}, nil
}

// Finalize hands off an immutable record for layout and export. Refused
// while the schedule invariant is violated.
func Finalize(res Result) (domain.Invoice, error) {
	if !res.ScheduleValid {
		return domain.Invoice{}, ErrScheduleOverAllocated
	}
	return res.Record.Clone(), nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	return math.Min(v, hi)
}
