package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scan-in/pkg/amount"
)

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		subtotal string
		want     string
	}{
		{"share of subtotal", "$7.92", "$39.62", "19.99"},
		{"no discount", "", "$39.62", "0.00"},
		{"no subtotal", "$7.92", "", "0.00"},
		{"discount above subtotal", "$10.00", "30", "100.00"},
		{"negative discount", "-5.00", "$50.00", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := discountPercentage(amount.Normalize(tt.discount), amount.Normalize(tt.subtotal))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAssembleClampsDiscountPercentage(t *testing.T) {
	rec := Assemble(Fields{
		FieldSubtotal: "30",
		FieldDiscount: "10.00",
	}, ScanResult{}, DefaultPlaceholders())

	assert.Equal(t, "0.30", rec.Subtotal.String())
	assert.Equal(t, "10.00", rec.DiscountAmount.String())
	assert.Equal(t, "100.00", rec.DiscountPercentage.String())
}
