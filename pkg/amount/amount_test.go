package amount

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"european grouping", "1.234,56", "1234.56"},
		{"us grouping", "1,234.56", "1234.56"},
		{"pure digits are cents", "1234", "12.34"},
		{"single digit", "5", "0.05"},
		{"two digits", "42", "0.42"},
		{"currency glyph", "$10.00", "10.00"},
		{"euro glyph and spaces", "€ 1 234,50", "1234.50"},
		{"decimal comma", "12,50", "12.50"},
		{"comma thousands only", "1,234", "1234.00"},
		{"repeated comma thousands", "1,234,567", "1234567.00"},
		{"repeated period thousands", "1.234.567", "1234567.00"},
		{"misread comma as period", "1.234.56", "1234.56"},
		{"trailing separator", "12.", "12.00"},
		{"sentence period", "35.00.", "35.00"},
		{"leading separator", ".75", "0.75"},
		{"rounds to cents", "3.14159", "3.14"},
		{"ocr noise", "~$12.50*", "12.50"},
		{"empty", "", "0.00"},
		{"letters only", "shipping", "0.00"},
		{"separators only", ".,.", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.token).String())
		})
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	twoDecimals := regexp.MustCompile(`^\d+\.\d{2}$`)
	tokens := []string{"", " ", "$", "abc", "1.2.3.4", ",,,", "9,99,9.9,9", "१२३", "$ 0", "0000", "1,2"}

	for _, token := range tokens {
		got := Normalize(token)
		assert.Regexp(t, twoDecimals, got.String(), "token %q", token)
		assert.False(t, got.Decimal().IsNegative(), "token %q", token)
	}
}

func TestNormalizeKeepsLeadingMinus(t *testing.T) {
	assert.Equal(t, "-5.00", Normalize("-$5.00").String())
	assert.Equal(t, "5.00", Normalize("5.00-").String())
}

func TestAmountJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Total Amount `json:"total"`
	}{Normalize("1234")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 12.34}`, string(out))
	assert.Contains(t, string(out), "12.34")

	var in struct {
		Price Amount `json:"price"`
		Other Amount `json:"other"`
		Empty Amount `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": 30, "other": "7.5", "empty": null}`), &in))
	assert.Equal(t, "30.00", in.Price.String())
	assert.Equal(t, "7.50", in.Other.String())
	assert.True(t, in.Empty.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"price": "abc"}`), &in))
}

func TestFromDecimal(t *testing.T) {
	a := FromDecimal(decimal.RequireFromString("19.999"))
	assert.Equal(t, "20.00", a.String())
	assert.True(t, a.Equal(Normalize("20,00")))
	assert.InDelta(t, 20.0, a.Float64(), 0.0001)
}
