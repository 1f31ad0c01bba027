// Package domain contains the invoice record model and persistence types.
package domain

// Party identifies the issuer or the recipient of an invoice.
type Party struct {
	Name               string `json:"name"`
	CompanyName        string `json:"companyName,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	Country            string `json:"country,omitempty"`
	PostalCode         string `json:"postalCode,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Logo               string `json:"logo,omitempty"`
}

// LineItem is a single row on the invoice. Total is always derived as
// Quantity * UnitPrice by the pipeline; stored values are never trusted.
// CustomFields holds values for non-built-in columns, keyed by column key.
type LineItem struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Quantity     float64        `json:"quantity"`
	UnitPrice    float64        `json:"unitPrice"`
	Total        float64        `json:"total"`
	CustomFields map[string]any `json:"customFields,omitempty"`
}

// TaxConfig stores the rate as a fraction (0-1). User-facing input is a
// percentage; conversion happens at the transport boundary.
type TaxConfig struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate"`
	Amount  float64 `json:"amount"`
	Label   string  `json:"label,omitempty"`
}

// DiscountConfig is the legacy discount shape. Unlike TaxConfig, Rate here
// is a percentage (0-100). Kept for compatibility with stored drafts.
type DiscountConfig struct {
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// PaymentScheduleEntry is one installment against the grand total.
// Amount = Total * Percentage / 100, recomputed on every pipeline run.
type PaymentScheduleEntry struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage"`
	Amount      float64 `json:"amount"`
}

// BankDetails is shown alongside the payment schedule.
type BankDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	SwiftCode     string `json:"swiftCode,omitempty"`
}

// Invoice is the aggregate record that moves through the assembly pipeline.
// Computed fields (item totals, Subtotal, Tax.Amount, Discount.Amount,
// schedule amounts, Total) are owned by the pipeline; everything else is
// raw draft input.
type Invoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	DueDate       string `json:"dueDate,omitempty"`
	Currency      string `json:"currency"`

	Company Party `json:"company"`
	Client  Party `json:"client"`

	Items   []LineItem         `json:"items"`
	Columns []ColumnDefinition `json:"columns,omitempty"`

	Subtotal float64         `json:"subtotal"`
	Tax      TaxConfig       `json:"tax"`
	Discount *DiscountConfig `json:"discount,omitempty"`
	Total    float64         `json:"total"`

	ShowPaymentSchedule bool                   `json:"showPaymentSchedule,omitempty"`
	PaymentSchedule     []PaymentScheduleEntry `json:"paymentSchedule,omitempty"`
	Bank                *BankDetails           `json:"bank,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// Clone returns a deep copy. Finalized records are handed out as copies so
// later draft edits cannot mutate a record already given to a renderer.
func (inv Invoice) Clone() Invoice {
	out := inv

	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		for i, item := range inv.Items {
			out.Items[i] = item
			if item.CustomFields != nil {
				fields := make(map[string]any, len(item.CustomFields))
				for k, v := range item.CustomFields {
					fields[k] = v
				}
				out.Items[i].CustomFields = fields
			}
		}
	}
	if inv.Columns != nil {
		out.Columns = append([]ColumnDefinition(nil), inv.Columns...)
	}
	if inv.PaymentSchedule != nil {
		out.PaymentSchedule = append([]PaymentScheduleEntry(nil), inv.PaymentSchedule...)
	}
	if inv.Discount != nil {
		discount := *inv.Discount
		out.Discount = &discount
	}
	if inv.Bank != nil {
		bank := *inv.Bank
		out.Bank = &bank
	}
	return out
}
