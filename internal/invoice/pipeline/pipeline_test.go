package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weehong/resetrix-invoice/internal/invoice/column"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

func draft() domain.Invoice {
	return domain.Invoice{
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   "2025-09-01",
		Currency:      "USD",
		Items: []domain.LineItem{
			{ID: "1", Description: "Design", Quantity: 2, UnitPrice: 100},
			{ID: "2", Description: "Development", Quantity: 3, UnitPrice: 150},
		},
	}
}

func TestRun_RejectsMissingInvoiceNumber(t *testing.T) {
	d := draft()
	d.InvoiceNumber = "  "
	_, err := Run(d)
	assert.ErrorIs(t, err, ErrMissingInvoiceNumber)
}

func TestRun_ComputesDerivationChain(t *testing.T) {
	d := draft()
	// Stale stored values must be overwritten, not trusted.
	d.Items[0].Total = 123456
	d.Subtotal = -1
	d.Total = -1

	res, err := Run(d)
	require.NoError(t, err)
	assert.Equal(t, StateValidated, res.State)
	assert.True(t, res.ScheduleValid)

	rec := res.Record
	assert.InDelta(t, 200, rec.Items[0].Total, 1e-9)
	assert.InDelta(t, 450, rec.Items[1].Total, 1e-9)
	assert.InDelta(t, 650, rec.Subtotal, 1e-9)
	assert.InDelta(t, 650, rec.Total, 1e-9)

	for _, item := range rec.Items {
		assert.InDelta(t, item.Quantity*item.UnitPrice, item.Total, 1e-9)
	}
}

func TestRun_TaxAndDiscount(t *testing.T) {
	d := draft()
	d.Items = []domain.LineItem{{ID: "1", Quantity: 1, UnitPrice: 1000}}
	d.Tax = domain.TaxConfig{Enabled: true, Rate: 0.07, Label: "GST"}
	d.Discount = &domain.DiscountConfig{Rate: 10}

	res, err := Run(d)
	require.NoError(t, err)

	rec := res.Record
	assert.InDelta(t, 1000, rec.Subtotal, 1e-9)
	assert.InDelta(t, 70, rec.Tax.Amount, 1e-9)
	assert.InDelta(t, 100, rec.Discount.Amount, 1e-9)
	assert.InDelta(t, 970, rec.Total, 1e-9)
	assert.InDelta(t, rec.Subtotal-rec.Discount.Amount+rec.Tax.Amount, rec.Total, 1e-9)
}

func TestRun_RecomputesScheduleAmounts(t *testing.T) {
	d := draft()
	d.Items = []domain.LineItem{{ID: "1", Quantity: 1, UnitPrice: 1000}}
	d.Tax = domain.TaxConfig{Enabled: true, Rate: 0.07}
	d.ShowPaymentSchedule = true
	d.PaymentSchedule = []domain.PaymentScheduleEntry{
		{ID: "1", Description: "Upon signing", Percentage: 30},
		{ID: "2", Description: "Upon delivery", Percentage: 60},
		{ID: "3", Description: "Upon acceptance", Percentage: 10},
	}

	res, err := Run(d)
	require.NoError(t, err)
	require.True(t, res.ScheduleValid)

	s := res.Record.PaymentSchedule
	assert.InDelta(t, 321, s[0].Amount, 1e-9)
	assert.InDelta(t, 642, s[1].Amount, 1e-9)
	assert.InDelta(t, 107, s[2].Amount, 1e-9)
}

func TestRun_OverAllocatedScheduleBlocksFinalize(t *testing.T) {
	d := draft()
	d.PaymentSchedule = []domain.PaymentScheduleEntry{
		{ID: "1", Percentage: 60},
		{ID: "2", Percentage: 50},
	}

	res, err := Run(d)
	require.NoError(t, err)
	assert.Equal(t, StateComputed, res.State)
	assert.False(t, res.ScheduleValid)

	_, err = Finalize(res)
	assert.ErrorIs(t, err, ErrScheduleOverAllocated)
}

func TestRun_NormalizesColumnsAndCurrency(t *testing.T) {
	d := draft()
	d.Currency = "DOGE"
	d.Items[0].CustomFields = map[string]any{"stale": "x"}

	res, err := Run(d)
	require.NoError(t, err)

	rec := res.Record
	assert.Equal(t, "USD", rec.Currency)
	require.Len(t, rec.Columns, 4)
	assert.Nil(t, rec.Items[0].CustomFields)
}

func TestRun_SortsColumnsByOrder(t *testing.T) {
	d := draft()
	// Slice order disagrees with the Order values, as can happen with a
	// deserialized draft. Rendering order must follow Order ascending.
	defaults := column.Defaults()
	d.Columns = []domain.ColumnDefinition{defaults[3], defaults[0], defaults[1], defaults[2]}

	res, err := Run(d)
	require.NoError(t, err)

	keys := make([]string, 0, len(res.Record.Columns))
	for _, col := range res.Record.Columns {
		keys = append(keys, col.Key)
	}
	assert.Equal(t, []string{"description", "quantity", "unitPrice", "total"}, keys)
}

func TestRun_SeedsCustomFieldDefaults(t *testing.T) {
	d := draft()
	cols, err := column.Add(column.Defaults(), column.Proposal{Key: "projectCode", Label: "Project", Type: domain.TypeText})
	require.NoError(t, err)
	d.Columns = cols

	res, err := Run(d)
	require.NoError(t, err)
	for _, item := range res.Record.Items {
		assert.Equal(t, "", item.CustomFields["projectCode"])
	}
}

func TestRun_ClampsRates(t *testing.T) {
	d := draft()
	d.Tax = domain.TaxConfig{Enabled: true, Rate: 7} // bad import: 700%
	d.Discount = &domain.DiscountConfig{Rate: -10}

	res, err := Run(d)
	require.NoError(t, err)
	assert.Equal(t, float64(1), res.Record.Tax.Rate)
	assert.Equal(t, float64(0), res.Record.Discount.Rate)
}

func TestFinalize_ReturnsDetachedCopy(t *testing.T) {
	res, err := Run(draft())
	require.NoError(t, err)

	final, err := Finalize(res)
	require.NoError(t, err)

	final.Items[0].Description = "mutated"
	assert.Equal(t, "Design", res.Record.Items[0].Description)
}

func TestRun_IsPureReDerivation(t *testing.T) {
	d := draft()
	first, err := Run(d)
	require.NoError(t, err)
	second, err := Run(first.Record)
	require.NoError(t, err)
	assert.Equal(t, first.Record, second.Record)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	d := draft()
	d.Items[0].Total = 999

	_, err := Run(d)
	require.NoError(t, err)
	assert.Equal(t, float64(999), d.Items[0].Total)
}
