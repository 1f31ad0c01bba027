// Package layout maps an assembled invoice record into an ordered sequence
// of self-contained blocks for a paginated renderer. The engine decides
// structure, proportions and cell content; pagination, fonts and byte-level
// output belong to the renderer consuming the Document.
package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weehong/resetrix-invoice/internal/currency"
	"github.com/weehong/resetrix-invoice/internal/invoice/column"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

// Kind discriminates layout blocks.
type Kind string

const (
	KindHeader   Kind = "header"
	KindAddress  Kind = "address"
	KindTable    Kind = "table"
	KindTotals   Kind = "totals"
	KindSchedule Kind = "schedule"
	KindBank     Kind = "bank"
	KindFooter   Kind = "footer"
)

// Block is a self-contained structural unit of the document.
type Block interface {
	Kind() Kind
}

// Alignment of a table cell or header label.
type Alignment string

const (
	AlignLeft  Alignment = "left"
	AlignRight Alignment = "right"
)

// HeaderBlock carries the document title line and invoice metadata.
type HeaderBlock struct {
	Title         string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Logo          string
}

func (HeaderBlock) Kind() Kind { return KindHeader }

// AddressBlock is one party block ("From" or "To"). Lines are already
// filtered: empty fields are dropped and the company line only appears when
// it differs from the name.
type AddressBlock struct {
	Label string
	Name  string
	Lines []string
}

func (AddressBlock) Kind() Kind { return KindAddress }

// TableColumn describes one rendered column. Flex is the relative width
// weight (first column 3, the rest 1); a non-empty Width is an absolute
// override and zeroes Flex, leaving the ratio to the flexible columns.
type TableColumn struct {
	Key   string
	Label string
	Align Alignment
	Flex  int
	Width string
}

// TableBlock is the item table: one header row driven by the column set and
// one row of pre-formatted cells per line item.
type TableBlock struct {
	Columns []TableColumn
	Rows    [][]string
}

func (TableBlock) Kind() Kind { return KindTable }

// TotalsRow holds one slot per table column so totals stay visually aligned
// with the item table: the label sits in the second-to-last slot, the amount
// in the last, every other slot is empty.
type TotalsRow struct {
	Cells      []string
	Emphasized bool
}

// TotalsBlock renders subtotal, optional discount and tax, and the grand
// total (always last).
type TotalsBlock struct {
	Columns []TableColumn
	Rows    []TotalsRow
}

func (TotalsBlock) Kind() Kind { return KindTotals }

// ScheduleRow is one installment line.
type ScheduleRow struct {
	Percentage  string
	Description string
	Amount      string
}

// ScheduleBlock lists the payment installments. Only emitted when the
// record requests the schedule and at least one entry exists.
type ScheduleBlock struct {
	Title string
	Rows  []ScheduleRow
}

func (ScheduleBlock) Kind() Kind { return KindSchedule }

// BankBlock accompanies the schedule block with transfer details.
type BankBlock struct {
	Lines []string
}

func (BankBlock) Kind() Kind { return KindBank }

// FooterBlock carries static boilerplate plus a page-number pattern the
// renderer resolves at paint time; this engine never knows page numbers.
type FooterBlock struct {
	Text              string
	PageNumberPattern string
}

func (FooterBlock) Kind() Kind { return KindFooter }

// Document is the ordered block sequence for one invoice.
type Document struct {
	Currency string
	Blocks   []Block
}

const (
	documentTitle     = "INVOICE"
	scheduleTitle     = "PAYMENT SCHEDULE"
	footerText        = "Thank you for your business."
	pageNumberPattern = "Page {current} of {total}"

	// First column takes 3 width units, every other flexible column 1.
	firstColumnFlex = 3
)

// Build maps a finalized record into the fixed block order: header,
// addresses, item table, totals, optional schedule and bank details,
// footer.
func Build(rec domain.Invoice) Document {
	columns := column.Sorted(rec.Columns)
	if len(columns) == 0 {
		columns = column.Defaults()
	}
	tableColumns := buildColumns(columns, rec.Currency)

	blocks := []Block{
		HeaderBlock{
			Title:         documentTitle,
			InvoiceNumber: rec.InvoiceNumber,
			InvoiceDate:   rec.InvoiceDate,
			DueDate:       rec.DueDate,
			Logo:          rec.Company.Logo,
		},
		addressBlock("From", rec.Company),
		addressBlock("To", rec.Client),
		TableBlock{
			Columns: tableColumns,
			Rows:    buildRows(rec.Items, columns, rec.Currency),
		},
		TotalsBlock{
			Columns: tableColumns,
			Rows:    buildTotals(rec, len(tableColumns)),
		},
	}

	if rec.ShowPaymentSchedule && len(rec.PaymentSchedule) > 0 {
		blocks = append(blocks, ScheduleBlock{
			Title: scheduleTitle,
			Rows:  buildSchedule(rec.PaymentSchedule, rec.Currency),
		})
		if bank := bankBlock(rec.Bank); bank != nil {
			blocks = append(blocks, *bank)
		}
	}

	blocks = append(blocks, FooterBlock{
		Text:              footerText,
		PageNumberPattern: pageNumberPattern,
	})

	return Document{Currency: rec.Currency, Blocks: blocks}
}

func buildColumns(columns []domain.ColumnDefinition, code string) []TableColumn {
	out := make([]TableColumn, len(columns))
	for i, col := range columns {
		label := strings.ToUpper(col.Label)
		if col.Type == domain.TypeCurrency {
			label += " (" + code + ")"
		}

		align := AlignLeft
		if col.Type.Numeric() {
			align = AlignRight
		}

		flex := 1
		if i == 0 {
			flex = firstColumnFlex
		}
		if col.Width != "" {
			flex = 0
		}

		out[i] = TableColumn{
			Key:   col.Key,
			Label: label,
			Align: align,
			Flex:  flex,
			Width: col.Width,
		}
	}
	return out
}

func buildRows(items []domain.LineItem, columns []domain.ColumnDefinition, code string) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = cellText(item, col, code)
		}
		rows[i] = cells
	}
	return rows
}

func cellText(item domain.LineItem, col domain.ColumnDefinition, code string) string {
	value := column.Value(item, col)
	switch col.Type {
	case domain.TypeCurrency:
		if n, ok := toNumber(value); ok {
			return currency.Format(n, code)
		}
		return fmt.Sprint(value)
	case domain.TypeNumber:
		if n, ok := toNumber(value); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return fmt.Sprint(value)
	default:
		return fmt.Sprint(value)
	}
}

func buildTotals(rec domain.Invoice, slots int) []TotalsRow {
	var rows []TotalsRow
	code := rec.Currency

	rows = append(rows, totalsRow(slots, "SUBTOTAL ("+code+")", currency.Format(rec.Subtotal, code), false))

	if rec.Discount != nil {
		label := "DISCOUNT"
		if rec.Discount.Description != "" {
			label += " (" + strings.ToUpper(rec.Discount.Description) + ")"
		}
		if rec.Discount.Rate > 0 {
			label += fmt.Sprintf(" (%.0f%%)", rec.Discount.Rate)
		}
		rows = append(rows, totalsRow(slots, label, "-"+currency.Format(rec.Discount.Amount, code), false))
	}

	if rec.Tax.Enabled {
		label := rec.Tax.Label
		if label == "" {
			label = "Tax"
		}
		label = fmt.Sprintf("%s (%.0f%%) (%s)", strings.ToUpper(label), rec.Tax.Rate*100, code)
		rows = append(rows, totalsRow(slots, label, currency.Format(rec.Tax.Amount, code), false))
	}

	rows = append(rows, totalsRow(slots, "TOTAL ("+code+")", currency.Format(rec.Total, code), true))
	return rows
}

// totalsRow places the label in the second-to-last slot and the amount in
// the last one. With a single column the two slots collapse and only the
// amount survives.
func totalsRow(slots int, label, amount string, emphasized bool) TotalsRow {
	cells := make([]string, slots)
	if slots >= 2 {
		cells[slots-2] = label
	}
	if slots >= 1 {
		cells[slots-1] = amount
	}
	return TotalsRow{Cells: cells, Emphasized: emphasized}
}

func buildSchedule(entries []domain.PaymentScheduleEntry, code string) []ScheduleRow {
	rows := make([]ScheduleRow, len(entries))
	for i, entry := range entries {
		rows[i] = ScheduleRow{
			Percentage:  strconv.FormatFloat(entry.Percentage, 'f', -1, 64) + "%",
			Description: entry.Description,
			Amount:      currency.Format(entry.Amount, code),
		}
	}
	return rows
}

func addressBlock(label string, party domain.Party) AddressBlock {
	var lines []string
	appendLine := func(s string) {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}

	appendLine(party.RegistrationNumber)
	if party.CompanyName != "" && party.CompanyName != party.Name {
		appendLine(party.CompanyName)
	}
	appendLine(party.Address)
	appendLine(party.PostalCode)
	appendLine(party.Email)
	appendLine(party.Phone)

	return AddressBlock{Label: label, Name: party.Name, Lines: lines}
}

func bankBlock(bank *domain.BankDetails) *BankBlock {
	if bank == nil {
		return nil
	}

	var lines []string
	appendLine := func(prefix, s string) {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, prefix+s)
		}
	}
	appendLine("Bank: ", bank.BankName)
	appendLine("Account Name: ", bank.AccountName)
	appendLine("Account Number: ", bank.AccountNumber)
	appendLine("SWIFT: ", bank.SwiftCode)

	if len(lines) == 0 {
		return nil
	}
	return &BankBlock{Lines: lines}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
