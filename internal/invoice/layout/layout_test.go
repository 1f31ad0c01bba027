package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weehong/resetrix-invoice/internal/invoice/column"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

func sampleRecord() domain.Invoice {
	return domain.Invoice{
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   "2025-09-01",
		DueDate:       "2025-10-01",
		Currency:      "USD",
		Company: domain.Party{
			Name:               "Resetrix Pte Ltd",
			RegistrationNumber: "REG123456",
			Address:            "123 Business Street",
			PostalCode:         "123456",
			Email:              "contact@resetrix.com",
			Phone:              "+65 1234 5678",
		},
		Client: domain.Party{
			Name:        "John Smith",
			CompanyName: "Client Company Ltd",
			Address:     "456 Client Avenue",
			Email:       "client@clientcompany.com",
		},
		Items: []domain.LineItem{
			{ID: "1", Description: "Service Description", Quantity: 1, UnitPrice: 1000, Total: 1000},
		},
		Columns:  column.Defaults(),
		Subtotal: 1000,
		Tax:      domain.TaxConfig{Enabled: true, Rate: 0.07, Amount: 70, Label: "GST"},
		Total:    1070,
	}
}

func kindsOf(doc Document) []Kind {
	kinds := make([]Kind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		kinds[i] = b.Kind()
	}
	return kinds
}

func TestBuild_BlockOrder(t *testing.T) {
	doc := Build(sampleRecord())
	assert.Equal(t, []Kind{
		KindHeader, KindAddress, KindAddress, KindTable, KindTotals, KindFooter,
	}, kindsOf(doc))
}

func TestBuild_ScheduleAndBankBlocks(t *testing.T) {
	rec := sampleRecord()
	rec.ShowPaymentSchedule = true
	rec.PaymentSchedule = []domain.PaymentScheduleEntry{
		{ID: "1", Description: "Upon signing", Percentage: 30, Amount: 321},
	}
	rec.Bank = &domain.BankDetails{BankName: "DBS Bank", AccountNumber: "123-456789-001"}

	doc := Build(rec)
	assert.Equal(t, []Kind{
		KindHeader, KindAddress, KindAddress, KindTable, KindTotals,
		KindSchedule, KindBank, KindFooter,
	}, kindsOf(doc))

	// The schedule is suppressed unless the record explicitly requests it.
	rec.ShowPaymentSchedule = false
	assert.NotContains(t, kindsOf(Build(rec)), KindSchedule)

	// Requested but empty also suppresses it, together with bank details.
	rec.ShowPaymentSchedule = true
	rec.PaymentSchedule = nil
	kinds := kindsOf(Build(rec))
	assert.NotContains(t, kinds, KindSchedule)
	assert.NotContains(t, kinds, KindBank)
}

func TestBuild_ColumnWeightsAndAlignment(t *testing.T) {
	doc := Build(sampleRecord())
	table := doc.Blocks[3].(TableBlock)
	require.Len(t, table.Columns, 4)

	assert.Equal(t, 3, table.Columns[0].Flex)
	for _, col := range table.Columns[1:] {
		assert.Equal(t, 1, col.Flex)
	}

	assert.Equal(t, AlignLeft, table.Columns[0].Align)
	assert.Equal(t, AlignRight, table.Columns[1].Align)
	assert.Equal(t, AlignRight, table.Columns[2].Align)
	assert.Equal(t, AlignRight, table.Columns[3].Align)

	assert.Equal(t, "DESCRIPTION", table.Columns[0].Label)
	assert.Equal(t, "QUANTITY", table.Columns[1].Label)
	assert.Equal(t, "RATE (USD)", table.Columns[2].Label)
	assert.Equal(t, "TOTAL (USD)", table.Columns[3].Label)
}

func TestBuild_ColumnsRenderInOrderSequence(t *testing.T) {
	rec := sampleRecord()
	// A deserialized record may carry its columns out of sequence; rendering
	// order follows Order, and the 3-unit weight stays on the first column.
	defaults := column.Defaults()
	rec.Columns = []domain.ColumnDefinition{defaults[3], defaults[0], defaults[1], defaults[2]}

	doc := Build(rec)
	table := doc.Blocks[3].(TableBlock)
	require.Len(t, table.Columns, 4)

	keys := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		keys[i] = col.Key
	}
	assert.Equal(t, []string{"description", "quantity", "unitPrice", "total"}, keys)
	assert.Equal(t, 3, table.Columns[0].Flex)
	assert.Equal(t, 1, table.Columns[3].Flex)
}

func TestBuild_FixedWidthOverridesRatio(t *testing.T) {
	rec := sampleRecord()
	rec.Columns[1].Width = "15%"

	doc := Build(rec)
	table := doc.Blocks[3].(TableBlock)
	assert.Equal(t, 0, table.Columns[1].Flex)
	assert.Equal(t, "15%", table.Columns[1].Width)
	assert.Equal(t, 3, table.Columns[0].Flex)
}

func TestBuild_RowCells(t *testing.T) {
	rec := sampleRecord()
	cols, err := column.Add(rec.Columns, column.Proposal{Key: "projectCode", Label: "Project", Type: domain.TypeText})
	require.NoError(t, err)
	rec.Columns = cols
	rec.Items[0].CustomFields = map[string]any{"projectCode": "PRJ-9"}

	doc := Build(rec)
	table := doc.Blocks[3].(TableBlock)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Service Description", "1", "$1,000.00", "$1,000.00", "PRJ-9"}, table.Rows[0])
}

func TestBuild_TotalsPlacement(t *testing.T) {
	doc := Build(sampleRecord())
	totals := doc.Blocks[4].(TotalsBlock)
	require.Len(t, totals.Rows, 3)

	subtotal := totals.Rows[0]
	require.Len(t, subtotal.Cells, 4)
	assert.Equal(t, "", subtotal.Cells[0])
	assert.Equal(t, "", subtotal.Cells[1])
	assert.Equal(t, "SUBTOTAL (USD)", subtotal.Cells[2])
	assert.Equal(t, "$1,000.00", subtotal.Cells[3])
	assert.False(t, subtotal.Emphasized)

	tax := totals.Rows[1]
	assert.Equal(t, "GST (7%) (USD)", tax.Cells[2])
	assert.Equal(t, "$70.00", tax.Cells[3])

	grand := totals.Rows[2]
	assert.Equal(t, "TOTAL (USD)", grand.Cells[2])
	assert.Equal(t, "$1,070.00", grand.Cells[3])
	assert.True(t, grand.Emphasized)
}

func TestBuild_TotalsPlacementSixColumns(t *testing.T) {
	rec := sampleRecord()
	var err error
	rec.Columns, err = column.Add(rec.Columns, column.Proposal{Key: "projectCode", Label: "Project", Type: domain.TypeText})
	require.NoError(t, err)
	rec.Columns, err = column.Add(rec.Columns, column.Proposal{Key: "hours", Label: "Hours", Type: domain.TypeNumber})
	require.NoError(t, err)

	doc := Build(rec)
	totals := doc.Blocks[4].(TotalsBlock)
	row := totals.Rows[0]
	require.Len(t, row.Cells, 6)
	assert.Equal(t, "SUBTOTAL (USD)", row.Cells[4])
	assert.Equal(t, "$1,000.00", row.Cells[5])
	for _, cell := range row.Cells[:4] {
		assert.Empty(t, cell)
	}
}

func TestBuild_DiscountRow(t *testing.T) {
	rec := sampleRecord()
	rec.Discount = &domain.DiscountConfig{Rate: 10, Amount: 100, Description: "Loyalty"}
	rec.Total = 970

	doc := Build(rec)
	totals := doc.Blocks[4].(TotalsBlock)
	require.Len(t, totals.Rows, 4)
	assert.Equal(t, "DISCOUNT (LOYALTY) (10%)", totals.Rows[1].Cells[2])
	assert.Equal(t, "-$100.00", totals.Rows[1].Cells[3])
}

func TestBuild_TaxLabelDefaultsToTax(t *testing.T) {
	rec := sampleRecord()
	rec.Tax.Label = ""

	doc := Build(rec)
	totals := doc.Blocks[4].(TotalsBlock)
	assert.Equal(t, "TAX (7%) (USD)", totals.Rows[1].Cells[2])
}

func TestBuild_AddressConditionalLines(t *testing.T) {
	doc := Build(sampleRecord())

	from := doc.Blocks[1].(AddressBlock)
	assert.Equal(t, "From", from.Label)
	assert.Equal(t, "Resetrix Pte Ltd", from.Name)
	assert.Equal(t, []string{
		"REG123456", "123 Business Street", "123456",
		"contact@resetrix.com", "+65 1234 5678",
	}, from.Lines)

	// Client has no phone or postal code; those lines are absent. The
	// company line appears because it differs from the name.
	to := doc.Blocks[2].(AddressBlock)
	assert.Equal(t, "To", to.Label)
	assert.Equal(t, []string{
		"Client Company Ltd", "456 Client Avenue", "client@clientcompany.com",
	}, to.Lines)
}

func TestBuild_CompanyLineSkippedWhenSameAsName(t *testing.T) {
	rec := sampleRecord()
	rec.Client.CompanyName = rec.Client.Name

	doc := Build(rec)
	to := doc.Blocks[2].(AddressBlock)
	assert.NotContains(t, to.Lines, rec.Client.Name)
}

func TestBuild_ScheduleRows(t *testing.T) {
	rec := sampleRecord()
	rec.ShowPaymentSchedule = true
	rec.PaymentSchedule = []domain.PaymentScheduleEntry{
		{ID: "1", Description: "Upon signing", Percentage: 30, Amount: 321},
		{ID: "2", Description: "Upon delivery", Percentage: 60, Amount: 642},
		{ID: "3", Description: "Upon acceptance", Percentage: 10, Amount: 107},
	}

	doc := Build(rec)
	block := doc.Blocks[5].(ScheduleBlock)
	assert.Equal(t, "PAYMENT SCHEDULE", block.Title)
	require.Len(t, block.Rows, 3)
	assert.Equal(t, ScheduleRow{Percentage: "30%", Description: "Upon signing", Amount: "$321.00"}, block.Rows[0])
	assert.Equal(t, ScheduleRow{Percentage: "10%", Description: "Upon acceptance", Amount: "$107.00"}, block.Rows[2])
}

func TestBuild_FooterCarriesPagePlaceholder(t *testing.T) {
	doc := Build(sampleRecord())
	footer := doc.Blocks[len(doc.Blocks)-1].(FooterBlock)
	assert.Equal(t, "Page {current} of {total}", footer.PageNumberPattern)
	assert.NotEmpty(t, footer.Text)
}

func TestBuild_DefaultColumnsWhenUnset(t *testing.T) {
	rec := sampleRecord()
	rec.Columns = nil

	doc := Build(rec)
	table := doc.Blocks[3].(TableBlock)
	require.Len(t, table.Columns, 4)
	assert.Equal(t, "description", table.Columns[0].Key)
}
