package domain

// DefaultDraft is the starter record handed to clients creating a new
// document. Matches the canonical sample: 1000 subtotal, 7% GST, 1070 total,
// 30/60/10 installment schedule.
func DefaultDraft() Invoice {
	return Invoice{
		Currency: "SGD",
		Company: Party{
			Name: "Your Company",
		},
		Client: Party{
			Name: "Client Name",
		},
		Items: []LineItem{
			{ID: "1", Description: "Consulting services", Quantity: 1, UnitPrice: 1000},
		},
		Tax: TaxConfig{
			Enabled: true,
			Rate:    0.07,
			Label:   "GST",
		},
		ShowPaymentSchedule: true,
		PaymentSchedule: []PaymentScheduleEntry{
			{ID: "1", Description: "Deposit upon signing", Percentage: 30},
			{ID: "2", Description: "Upon delivery", Percentage: 60},
			{ID: "3", Description: "Upon acceptance", Percentage: 10},
		},
	}
}
