package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"usd grouping", 1234.5, "USD", "$1,234.50"},
		{"sgd symbol", 1070, "SGD", "S$1,070.00"},
		{"jpy no decimals", 1070, "JPY", "¥1,070"},
		{"gbp", 99.9, "GBP", "£99.90"},
		{"unknown falls back to usd", 10, "XXX", "$10.00"},
		{"empty falls back to usd", 10, "", "$10.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.amount, tc.code))
		})
	}
}

func TestByCode(t *testing.T) {
	c, ok := ByCode("MYR")
	assert.True(t, ok)
	assert.Equal(t, "RM", c.Symbol)

	_, ok = ByCode("BTC")
	assert.False(t, ok)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("USD"))
	assert.False(t, IsValidCode("usd"))
	assert.False(t, IsValidCode(""))
}

func TestSymbolFallback(t *testing.T) {
	assert.Equal(t, "A$", Symbol("AUD"))
	assert.Equal(t, "$", Symbol("NOPE"))
}

func TestSupportedIsACopy(t *testing.T) {
	list := Supported()
	list[0].Symbol = "mutated"
	assert.Equal(t, "$", Symbol("USD"))
}
