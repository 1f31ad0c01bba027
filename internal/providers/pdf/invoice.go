package pdf

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/weehong/resetrix-invoice/internal/invoice/layout"
)

// gridColumns is maroto's fixed page grid.
const gridColumns = 12

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// GenerateInvoice walks the block sequence in order and emits one maroto
// row group per block. Column proportions come from the layout engine's
// flex weights, mapped onto the 12-column grid.
func (p *PDFProvider) GenerateInvoice(ctx context.Context, doc layout.Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: pagePattern(doc),
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	for _, block := range doc.Blocks {
		switch b := block.(type) {
		case layout.HeaderBlock:
			addHeader(m, b)
		case layout.AddressBlock:
			addAddress(m, b)
		case layout.TableBlock:
			addTable(m, b)
		case layout.TotalsBlock:
			addTotals(m, b)
		case layout.ScheduleBlock:
			addSchedule(m, b)
		case layout.BankBlock:
			addBank(m, b)
		case layout.FooterBlock:
			addFooter(m, b)
		}
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}

func addHeader(m core.Maroto, b layout.HeaderBlock) {
	if b.Logo != "" {
		m.AddRow(30,
			image.NewFromFileCol(3, b.Logo, props.Rect{Percent: 80}),
			col.New(9),
		)
	}

	m.AddRow(12,
		text.NewCol(12, b.Title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	meta := col.New(6).Add(
		text.New("Invoice number: "+b.InvoiceNumber, props.Text{Top: 0, Size: 9}),
		text.New("Invoice date: "+b.InvoiceDate, props.Text{Top: 4, Size: 9}),
	)
	height := float64(14)
	if b.DueDate != "" {
		meta.Add(text.New("Due date: "+b.DueDate, props.Text{Top: 8, Size: 9}))
		height = 18
	}
	m.AddRow(height, meta, col.New(6))
}

func addAddress(m core.Maroto, b layout.AddressBlock) {
	texts := []core.Component{
		text.New(strings.ToUpper(b.Label), props.Text{Style: fontstyle.Bold, Size: 9}),
		text.New(b.Name, props.Text{Top: 5, Style: fontstyle.Bold, Size: 9}),
	}
	top := float64(9)
	for _, line := range b.Lines {
		texts = append(texts, text.New(line, props.Text{Top: top, Size: 9}))
		top += 4
	}

	m.AddRow(top+6, col.New(6).Add(texts...), col.New(6))
}

func addTable(m core.Maroto, b layout.TableBlock) {
	spans := gridSpans(b.Columns)

	headerCols := make([]core.Col, len(b.Columns))
	for i, column := range b.Columns {
		headerCols[i] = text.NewCol(spans[i], column.Label, props.Text{
			Style: fontstyle.Bold,
			Size:  9,
			Align: alignmentOf(column.Align),
		})
	}
	m.AddRow(8, headerCols...)

	for _, row := range b.Rows {
		cells := make([]core.Col, len(row))
		for i, cell := range row {
			cells[i] = text.NewCol(spans[i], cell, props.Text{
				Size:  9,
				Align: alignmentOf(b.Columns[i].Align),
			})
		}
		m.AddRow(7, cells...)
	}
}

func addTotals(m core.Maroto, b layout.TotalsBlock) {
	spans := gridSpans(b.Columns)

	for _, row := range b.Rows {
		style := fontstyle.Normal
		if row.Emphasized {
			style = fontstyle.Bold
		}
		cells := make([]core.Col, len(row.Cells))
		for i, cell := range row.Cells {
			if cell == "" {
				cells[i] = col.New(spans[i])
				continue
			}
			cells[i] = text.NewCol(spans[i], cell, props.Text{
				Size:  9,
				Style: style,
				Align: align.Right,
			})
		}
		m.AddRow(7, cells...)
	}
}

func addSchedule(m core.Maroto, b layout.ScheduleBlock) {
	m.AddRow(10,
		text.NewCol(12, b.Title, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
	)
	for _, row := range b.Rows {
		m.AddRow(7,
			text.NewCol(6, row.Description, props.Text{Size: 9}),
			text.NewCol(3, row.Percentage, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, row.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func addBank(m core.Maroto, b layout.BankBlock) {
	texts := make([]core.Component, len(b.Lines))
	top := float64(3)
	for i, line := range b.Lines {
		texts[i] = text.New(line, props.Text{Top: top, Size: 9})
		top += 4
	}
	m.AddRow(top+4, col.New(12).Add(texts...))
}

func addFooter(m core.Maroto, b layout.FooterBlock) {
	m.AddRow(12,
		text.NewCol(12, b.Text, props.Text{Size: 9, Top: 6, Align: align.Center}),
	)
}

func pagePattern(doc layout.Document) string {
	for _, block := range doc.Blocks {
		if footer, ok := block.(layout.FooterBlock); ok && footer.PageNumberPattern != "" {
			return footer.PageNumberPattern
		}
	}
	return "Page {current} of {total}"
}

func alignmentOf(a layout.Alignment) align.Type {
	if a == layout.AlignRight {
		return align.Right
	}
	return align.Left
}

// gridSpans distributes the 12-column grid across the table columns.
// Absolute widths ("25%") claim their share first; the flexible columns
// split the rest by flex weight. Every column gets at least one grid unit
// and rounding leftovers land on the last column.
func gridSpans(columns []layout.TableColumn) []int {
	if len(columns) == 0 {
		return nil
	}

	spans := make([]int, len(columns))
	remaining := gridColumns
	totalFlex := 0

	for i, column := range columns {
		if column.Width != "" {
			spans[i] = spanFromWidth(column.Width)
			remaining -= spans[i]
			continue
		}
		totalFlex += column.Flex
	}

	if remaining < 0 {
		remaining = 0
	}

	assigned := 0
	last := -1
	for i, column := range columns {
		if column.Width != "" {
			continue
		}
		span := 1
		if totalFlex > 0 {
			span = remaining * column.Flex / totalFlex
		}
		if span < 1 {
			span = 1
		}
		spans[i] = span
		assigned += span
		last = i
	}
	if last >= 0 && assigned != remaining && remaining > assigned {
		spans[last] += remaining - assigned
	}
	return spans
}

func spanFromWidth(width string) int {
	pct, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(width), "%"))
	if err != nil || pct <= 0 {
		return 1
	}
	span := (pct*gridColumns + 50) / 100
	if span < 1 {
		span = 1
	}
	if span > gridColumns {
		span = gridColumns
	}
	return span
}
