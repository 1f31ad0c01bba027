package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumber(t *testing.T) {
	issued := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		template string
		seq      int64
		want     string
		wantErr  bool
	}{
		{"default template", DefaultNumberTemplate, 1, "INV-2025-001", false},
		{"date tokens", "INV-{YYYY}{MM}{DD}-{SEQ6}", 42, "INV-20250901-000042", false},
		{"plain seq", "DOC-{SEQ}", 7, "DOC-7", false},
		{"short year", "{YY}-{SEQ2}", 3, "25-03", false},
		{"empty template", "", 1, "", true},
		{"zero sequence", DefaultNumberTemplate, 0, "", true},
		{"unresolved token", "INV-{NOPE}", 1, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := InvoiceNumber(tc.template, issued, tc.seq)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
