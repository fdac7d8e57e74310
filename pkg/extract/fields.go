package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"scan-in/pkg/amount"
	"scan-in/pkg/fuzzy"
)

// Field names a value produced by a Rule.
type Field string

const (
	FieldInvoiceNumber   Field = "invoiceNumber"
	FieldInvoiceDate     Field = "invoiceDate"
	FieldOrderID         Field = "orderId"
	FieldTotal           Field = "totalAmount"
	FieldSubtotal        Field = "subtotal"
	FieldBalanceDue      Field = "amount"
	FieldDiscount        Field = "discountAmount"
	FieldShipping        Field = "shippingAmount"
	FieldShipMode        Field = "shipMode"
	FieldDebtor          Field = "debiteurName"
	FieldCity            Field = "address.city"
	FieldPostalCode      Field = "address.postalCode"
	FieldItemDescription Field = "items.description"
	FieldItemQuantity    Field = "items.quantity"
	FieldItemUnitPrice   Field = "items.unitPrice"
	FieldItemTotalPrice  Field = "items.totalPrice"
	FieldItemCategory    Field = "items.category"
	FieldItemProductCode Field = "items.productCode"
)

// Rule looks for one field in the text. Find reports false when the field
// is absent; it never fails otherwise.
type Rule struct {
	Field Field
	Find  func(t RawText) (string, bool)
}

// Fields holds the raw values matched by the rules.
type Fields map[Field]string

// Has reports whether a rule matched field.
func (f Fields) Has(field Field) bool {
	_, ok := f[field]
	return ok
}

// Text returns the matched value of field, or def.
func (f Fields) Text(field Field, def string) string {
	if v, ok := f[field]; ok {
		return v
	}
	return def
}

// Amount normalizes the matched value of field; unmatched fields are 0.00.
func (f Fields) Amount(field Field) amount.Amount {
	v, ok := f[field]
	if !ok {
		return amount.Zero
	}
	return amount.Normalize(v)
}

const money = `([0-9][0-9.,]*)`

var (
	invoiceNumberRe = regexp.MustCompile(`#\s*(\d+)`)
	invoiceDateRe   = regexp.MustCompile(`Date[:\s]+([A-Za-z]{3} \d{1,2},? \d{4})`)
	orderIDRe       = regexp.MustCompile(`Order ID\s*:\s*(\S+)`)
	totalRe         = regexp.MustCompile(`\bTotal\s*:?\s*\$?\s*` + money)
	subtotalRe      = regexp.MustCompile(`Sub[Tt]otal\s*:?\s*\$?\s*` + money)
	balanceDueRe    = regexp.MustCompile(`Balance Due[:\s]*\$?\s*` + money)
	cityRe          = regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z .'-]*[a-z]),\s*[A-Z]{2}\b`)
	postalCodeRe    = regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-z .'-]*[a-z],\s*[A-Z]{2}\s+(\d{5}(?:-\d{4})?)\b`)
	categoryLineRe  = regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z ,&/-]*?)\.\s+([A-Z]{3,}[-\s]?[A-Z0-9-]{3,})\s*$`)

	amountTokenRe = regexp.MustCompile(money)
)

// patternRule returns the trimmed capture group of the first match of re.
func patternRule(field Field, re *regexp.Regexp, group int) Rule {
	return Rule{
		Field: field,
		Find: func(t RawText) (string, bool) {
			m := re.FindStringSubmatch(t.String())
			if m == nil {
				return "", false
			}
			v := strings.TrimSpace(m[group])
			return v, v != ""
		},
	}
}

// closedSetRule matches the first occurrence of any of words.
func closedSetRule(field Field, words []string) (Rule, bool) {
	alt := alternation(words)
	if alt == "" {
		return Rule{}, false
	}
	return patternRule(field, regexp.MustCompile(`\b(`+alt+`)\b`), 1), true
}

// shippingRule finds the shipping line by similarity, falling back to a
// literal misreading, and reads the first amount on it.
func shippingRule(lex Lexicon, threshold float64, logger *zap.Logger) Rule {
	return Rule{
		Field: FieldShipping,
		Find: func(t RawText) (string, bool) {
			line, ok, viaLiteral := fuzzy.FindLineOr(t.Lines(), lex.ShippingKeyword, threshold, lex.ShippingMisread)
			if !ok {
				return "", false
			}
			logger.Debug("shipping line selected",
				zap.String("line", line),
				zap.Bool("literal_fallback", viaLiteral))
			return firstAmount(line)
		},
	}
}

// firstAmount returns the first numeric token on line.
func firstAmount(line string) (string, bool) {
	if m := amountTokenRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// buildRules assembles the rule battery for a lexicon.
func buildRules(lex Lexicon, threshold float64, logger *zap.Logger) []Rule {
	rules := []Rule{
		patternRule(FieldInvoiceNumber, invoiceNumberRe, 1),
		patternRule(FieldInvoiceDate, invoiceDateRe, 1),
		patternRule(FieldOrderID, orderIDRe, 1),
		patternRule(FieldTotal, totalRe, 1),
		patternRule(FieldSubtotal, subtotalRe, 1),
		patternRule(FieldBalanceDue, balanceDueRe, 1),
		patternRule(FieldCity, cityRe, 1),
		patternRule(FieldPostalCode, postalCodeRe, 1),
		patternRule(FieldItemCategory, categoryLineRe, 1),
		patternRule(FieldItemProductCode, categoryLineRe, 2),
		shippingRule(lex, threshold, logger),
	}

	discount := []string{"Discount"}
	if lex.DiscountMisread != "" {
		discount = append(discount, lex.DiscountMisread)
	}
	discountRe := regexp.MustCompile(`(?i)(?:` + alternation(discount) + `).*?\$\s*` + money)
	rules = append(rules, patternRule(FieldDiscount, discountRe, 1))

	if r, ok := closedSetRule(FieldShipMode, lex.ShipModes); ok {
		rules = append(rules, r)
	}
	if r, ok := closedSetRule(FieldDebtor, lex.Debtors); ok {
		rules = append(rules, r)
	}
	if alt := alternation(lex.Products); alt != "" {
		itemRe := regexp.MustCompile(`(?m)\b((?:` + alt + `)[^$\n]*?)\s+(\d+)\s+\$\s?` + money + `\s+\$\s?` + money)
		rules = append(rules,
			patternRule(FieldItemDescription, itemRe, 1),
			patternRule(FieldItemQuantity, itemRe, 2),
			patternRule(FieldItemUnitPrice, itemRe, 3),
			patternRule(FieldItemTotalPrice, itemRe, 4),
		)
	}
	return rules
}

// runRules applies every rule once. Rules are independent of each other.
func runRules(rules []Rule, t RawText) Fields {
	out := make(Fields, len(rules))
	for _, r := range rules {
		if v, ok := r.Find(t); ok {
			out[r.Field] = v
		}
	}
	return out
}
