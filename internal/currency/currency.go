// Package currency formats invoice amounts per currency and locale. It is
// pure and stateless; the supported set mirrors what the invoice editor
// offers.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency describes one supported currency.
type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Locale   string `json:"locale"`
	Decimals int    `json:"decimals"`

	tag language.Tag
}

// DefaultCode is the fallback for unknown or empty currency codes.
const DefaultCode = "USD"

var supported = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Locale: "en-US", Decimals: 2},
	{Code: "EUR", Name: "Euro", Symbol: "€", Locale: "en-IE", Decimals: 2},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Locale: "en-GB", Decimals: 2},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Locale: "en-SG", Decimals: 2},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Locale: "ja-JP", Decimals: 0},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Locale: "en-AU", Decimals: 2},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Locale: "en-CA", Decimals: 2},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", Locale: "ms-MY", Decimals: 2},
}

func init() {
	for i := range supported {
		supported[i].tag = language.Make(supported[i].Locale)
	}
}

// ByCode looks up a supported currency; the second result is false for
// unknown codes.
func ByCode(code string) (Currency, bool) {
	for _, c := range supported {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// IsValidCode reports whether code is supported.
func IsValidCode(code string) bool {
	_, ok := ByCode(code)
	return ok
}

// Symbol returns the display symbol for a code, falling back to "$".
func Symbol(code string) string {
	if c, ok := ByCode(code); ok {
		return c.Symbol
	}
	return "$"
}

// Format renders an amount with the currency's symbol and locale-aware
// grouping. Unknown codes fall back to USD.
func Format(amount float64, code string) string {
	c, ok := ByCode(code)
	if !ok {
		c, _ = ByCode(DefaultCode)
	}

	p := message.NewPrinter(c.tag)
	if c.Decimals == 0 {
		return c.Symbol + p.Sprintf("%.0f", amount)
	}
	return c.Symbol + p.Sprintf("%.2f", amount)
}

// Supported returns the full currency registry in declaration order.
func Supported() []Currency {
	out := make([]Currency, len(supported))
	copy(out, supported)
	return out
}
