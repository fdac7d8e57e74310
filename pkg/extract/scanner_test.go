package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(lines ...string) ScanResult {
	return NewScanner(DefaultLexicon()).Scan(RawTextFromLines(lines))
}

func TestScanStopsAtAddressBlock(t *testing.T) {
	res := scan(
		"Widget 3 $10.00 $30.00",
		"Bill To",
		"John Smith",
		"Gadget 2 $5.00 $10.00",
		"Sprocket 1 $1.00 $1.00",
	)

	assert.Equal(t, StateFoundAddressBlock, res.State)
	assert.Equal(t, 2, res.Examined)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Widget", res.Items[0].Description)
	assert.Equal(t, "John Smith", res.DebtorName)
	assert.Empty(t, res.Address.City, "an item row is not a city")
}

func TestScanMarkerInsideWordsIsNotAMarker(t *testing.T) {
	tests := []struct {
		name  string
		first string
		desc  string
	}{
		{"ship to inside membership tote", "Membership Tote 1 $5.00 $5.00", "Membership Tote"},
		{"bill to inside bill total", "Bill Total 1 $5.00 $5.00", "Bill Total"},
		{"marker words in an item row", "Bill To Go Mug 1 $5.00 $5.00", "Bill To Go Mug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scan(tt.first, "Widget 3 $10.00 $30.00", "Bill To", "John Smith")

			assert.Equal(t, StateFoundAddressBlock, res.State)
			assert.Equal(t, 3, res.Examined)
			require.Len(t, res.Items, 2)
			assert.Equal(t, tt.desc, res.Items[0].Description)
			assert.Equal(t, "Widget", res.Items[1].Description)
			assert.Equal(t, "John Smith", res.DebtorName)
		})
	}
}

func TestScanMarkerDetection(t *testing.T) {
	s := NewScanner(DefaultLexicon())

	for _, line := range []string{"Bill To", "BILL TO:", "Bill To:   Ship To:", "ship to: Jane Doe", "8ill to", "Bi|l To:"} {
		assert.True(t, s.isMarker(line), line)
	}
	for _, line := range []string{"Membership Tote", "Billtop Ltd", "Bill Total:", "Ship Mode:", "Bi|l To"} {
		assert.False(t, s.isMarker(line), line)
	}
}

func TestScanWithoutMarkerReadsToEnd(t *testing.T) {
	res := scan("", "Widget 3 $10.00 $30.00", "   ", "Gadget 12 $1,000.50 $12,006.00")

	assert.Equal(t, StateScanningItems, res.State)
	assert.Equal(t, 2, res.Examined, "blank lines are skipped")
	require.Len(t, res.Items, 2)
	assert.Equal(t, 12, res.Items[1].Quantity)
	assert.Equal(t, "1000.50", res.Items[1].UnitPrice.String())
	assert.Equal(t, "12006.00", res.Items[1].TotalPrice.String())
}

func TestScanItemRow(t *testing.T) {
	res := scan("Konica Minolta Printer 2 $ 199.99 $399.98", "Technology, Machines. TEC-MA-10000418")

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, "Konica Minolta Printer", item.Description)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "199.99", item.UnitPrice.String())
	assert.Equal(t, "399.98", item.TotalPrice.String())
	assert.Equal(t, "Technology, Machines", item.Category)
	assert.Equal(t, "TEC-MA-10000418", item.ProductCode)
}

func TestScanBackfillSkipsFollowingItemRow(t *testing.T) {
	res := scan(
		"Widget 3 $10.00 $30.00",
		"Gadget 2 $5.00 $10.00",
		"Tools. TLS-001",
	)

	require.Len(t, res.Items, 2)
	assert.Empty(t, res.Items[0].Category)
	assert.Empty(t, res.Items[0].ProductCode)
	assert.Equal(t, "Tools", res.Items[1].Category)
	assert.Equal(t, "TLS-001", res.Items[1].ProductCode)
}

func TestScanShipModeLastWins(t *testing.T) {
	res := scan("Ship Mode: First Class", "Gizmo 1 $2.00 $2.00", "SECOND CLASS")

	assert.Equal(t, "Second Class", res.ShipMode)
	assert.Len(t, res.Items, 1)
}

func TestScanAddress(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		debtor  string
		city    string
		postal  string
		country string
	}{
		{
			name:    "strict name shape",
			lines:   []string{"Bill To:", "Ship Mode", "John Smith", "Troy, NY", "United States"},
			debtor:  "John Smith",
			city:    "Troy",
			country: "United States",
		},
		{
			name:    "ocr corrupted marker",
			lines:   []string{"8ill To", "Aaron Hawkins", "Seattle, WA 98103", "United States"},
			debtor:  "Aaron Hawkins",
			city:    "Seattle",
			postal:  "98103",
			country: "United States",
		},
		{
			name:    "fallback to first non-label line",
			lines:   []string{"Ship To", "Date: Jan 5 2023", "ACME CORP LTD", "Springfield, IL 62701", "USA"},
			debtor:  "ACME CORP LTD",
			city:    "Springfield",
			postal:  "62701",
			country: "USA",
		},
		{
			name:    "balance line is not a country",
			lines:   []string{"Bill To", "John Smith", "Troy, NY", "Balance Due: $5.00"},
			debtor:  "John Smith",
			city:    "Troy",
			country: "",
		},
		{
			name:  "name outside the window",
			lines: []string{"Bill To", "Invoice: 1", "Date: x", "Order: y", "Due: z", "Ship: q", "Jane Doe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scan(tt.lines...)
			assert.Equal(t, StateFoundAddressBlock, res.State)
			assert.Equal(t, tt.debtor, res.DebtorName)
			assert.Equal(t, tt.city, res.Address.City)
			assert.Equal(t, tt.postal, res.Address.PostalCode)
			assert.Equal(t, tt.country, res.Address.Country)
		})
	}
}

func TestScanStateString(t *testing.T) {
	assert.Equal(t, "scanning_items", StateScanningItems.String())
	assert.Equal(t, "found_address_block", StateFoundAddressBlock.String())
	assert.Equal(t, "unknown", ScanState(9).String())
}
