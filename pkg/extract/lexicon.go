package extract

import (
	"regexp"
	"strings"
)

// Defaults used when a field cannot be read from the text.
const (
	DefaultInvoiceNumber = "0000"
	DefaultInvoiceDate   = "0000-00-00"
	DefaultOrderID       = ""
	DefaultDebtorName    = "Example Client"
	DefaultShipMode      = "Standard"
	DefaultCurrency      = "USD"
	DefaultCompany       = "Superstore"
	DefaultDueDate       = "2023-01-15"
	DefaultNotes         = "Thanks for your business!"
)

// Placeholders are record values that are not read from the text.
type Placeholders struct {
	Company      string
	IsNewCompany bool
	Currency     string
	DueDate      string
	VATNumber    string
	Notes        string
	Terms        string
	DebtorName   string
	ShipMode     string
}

// DefaultPlaceholders returns the stock placeholder values.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Company:      DefaultCompany,
		IsNewCompany: true,
		Currency:     DefaultCurrency,
		DueDate:      DefaultDueDate,
		Notes:        DefaultNotes,
		DebtorName:   DefaultDebtorName,
		ShipMode:     DefaultShipMode,
	}
}

// Lexicon holds the closed word lists the extraction rules match against.
// Until there is a customer registry these are configured lists.
type Lexicon struct {
	ShipModes []string
	Debtors   []string
	Products  []string

	// AddressMarkers open the bill-to/ship-to block, including common
	// OCR corruptions of "Bill To". Matched case-insensitively.
	AddressMarkers []string

	ShippingKeyword string
	ShippingMisread string
	DiscountMisread string
}

// DefaultLexicon returns the built-in lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		ShipModes: []string{"First Class", "Second Class", "Standard Class", "Same Day"},
		Debtors:   []string{"Aaron Hawkins", "Aaron Bergman", "Adam Hart"},
		Products:  []string{"Staples", "Konica"},
		AddressMarkers: []string{
			"bill to", "ship to", "billto", "shipto", "bil to", "bill t0",
			"8ill to", "bi11 to", "biil to", "bill io",
		},
		ShippingKeyword: "shipping",
		ShippingMisread: "Shoppe",
		DiscountMisread: "Dsvouet",
	}
}

// alternation builds a regexp alternation that matches any of words.
func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	return strings.Join(quoted, "|")
}
