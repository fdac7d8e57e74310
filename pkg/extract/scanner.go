package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scan-in/pkg/amount"
	"scan-in/pkg/fuzzy"
	"scan-in/pkg/models"
)

// ScanState is the state of the line-item scanner.
type ScanState int

const (
	// StateScanningItems is the initial state: lines are item candidates.
	StateScanningItems ScanState = iota
	// StateFoundAddressBlock is terminal. No line after the bill-to
	// marker's window is examined.
	StateFoundAddressBlock
)

func (s ScanState) String() string {
	switch s {
	case StateScanningItems:
		return "scanning_items"
	case StateFoundAddressBlock:
		return "found_address_block"
	default:
		return "unknown"
	}
}

// AddressWindow is the number of lines after a bill-to marker searched for
// the name, city and country.
const AddressWindow = 5

// A label line such as "Bi|l To:" that no listed marker spells out is
// still a marker when it is this similar to "bill to".
const (
	markerKeyword    = "bill to"
	markerSimilarity = 0.8
)

var (
	itemRowRe   = regexp.MustCompile(`^(.+?)\s+(\d+)\s+\$\s?` + money + `\s+\$\s?` + money + `\s*$`)
	shipClassRe = regexp.MustCompile(`(?i)\b([a-z]+ class)\s*$`)
	nameRe      = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z'.-]+)+$`)
	balanceRe   = regexp.MustCompile(`(?i)\b(?:balance|total|subtotal|due)\b|\$\s*\d`)
	labelWordRe = regexp.MustCompile(`(?i)^(?:ship|bill|date|invoice|order|balance|due|subtotal|total)\b`)
	zipRe       = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
)

// ScanResult is what a single pass of the scanner collected.
type ScanResult struct {
	Items      []models.LineItem
	Address    models.Address
	DebtorName string
	ShipMode   string
	State      ScanState
	// Examined counts the lines visited before the scan stopped, the
	// bill-to marker included.
	Examined int
}

// Scanner walks the text once, collecting item rows until it reaches the
// address block.
type Scanner struct {
	markerRe  *regexp.Regexp
	shipModes map[string]bool
}

// NewScanner builds a scanner for the markers and ship modes in lex.
func NewScanner(lex Lexicon) *Scanner {
	s := &Scanner{shipModes: make(map[string]bool, len(lex.ShipModes))}
	if alt := alternation(lex.AddressMarkers); alt != "" {
		// Markers must stand as words: "Membership Tote" holds no "ship to".
		s.markerRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(?:` + alt + `)(?:[^a-z0-9]|$)`)
	}
	for _, m := range lex.ShipModes {
		s.shipModes[strings.ToLower(m)] = true
	}
	return s
}

// Scan runs the state machine over the non-blank lines of t.
func (s *Scanner) Scan(t RawText) ScanResult {
	lines := t.content()
	res := ScanResult{State: StateScanningItems}

	for i := 0; i < len(lines) && res.State == StateScanningItems; i++ {
		line := lines[i]
		res.Examined++

		if m := shipClassRe.FindStringSubmatch(line); m != nil {
			res.ShipMode = titleCase(m[1])
		}

		if s.isMarker(line) {
			res.State = StateFoundAddressBlock
			s.readAddress(lines[i+1:min(i+1+AddressWindow, len(lines))], &res)
			continue
		}

		item, ok := parseItemRow(line)
		if !ok {
			continue
		}
		if i+1 < len(lines) {
			backfillCategory(&item, lines[i+1])
		}
		res.Items = append(res.Items, item)
	}
	return res
}

// isMarker reports a bill-to/ship-to line. Item rows never are.
func (s *Scanner) isMarker(line string) bool {
	if itemRowRe.MatchString(line) {
		return false
	}
	if s.markerRe != nil && s.markerRe.MatchString(line) {
		return true
	}
	label, ok := strings.CutSuffix(line, ":")
	if !ok {
		return false
	}
	_, ok = fuzzy.FindLineWhole([]string{label}, markerKeyword, markerSimilarity)
	return ok
}

// isLabel reports lines that cannot be a counterparty name.
func (s *Scanner) isLabel(line string) bool {
	return strings.Contains(line, ":") ||
		s.isMarker(line) ||
		shipClassRe.MatchString(line) ||
		s.shipModes[strings.ToLower(line)] ||
		labelWordRe.MatchString(line) ||
		balanceRe.MatchString(line)
}

// readAddress fills the name, city and country from the lines following
// a bill-to marker.
func (s *Scanner) readAddress(window []string, res *ScanResult) {
	nameAt := -1
	for j, l := range window {
		if nameRe.MatchString(l) && !s.isLabel(l) {
			nameAt = j
			break
		}
	}
	if nameAt < 0 {
		for j, l := range window {
			if !s.isLabel(l) {
				nameAt = j
				break
			}
		}
	}
	if nameAt < 0 {
		return
	}
	res.DebtorName = window[nameAt]

	if nameAt+1 >= len(window) || balanceRe.MatchString(window[nameAt+1]) {
		return
	}
	city, rest, hasComma := strings.Cut(window[nameAt+1], ",")
	res.Address.City = strings.TrimSpace(city)
	if hasComma {
		if m := zipRe.FindStringSubmatch(rest); m != nil {
			res.Address.PostalCode = m[1]
		}
	}

	if nameAt+2 < len(window) && !balanceRe.MatchString(window[nameAt+2]) {
		res.Address.Country = window[nameAt+2]
	}
}

func parseItemRow(line string) (models.LineItem, bool) {
	m := itemRowRe.FindStringSubmatch(line)
	if m == nil {
		return models.LineItem{}, false
	}
	qty, err := strconv.Atoi(m[2])
	if err != nil {
		qty = 0
	}
	return models.LineItem{
		Description: strings.TrimSpace(m[1]),
		Quantity:    qty,
		UnitPrice:   amount.Normalize(m[3]),
		TotalPrice:  amount.Normalize(m[4]),
	}, true
}

// backfillCategory reads "<Category>. <CODE>" from the line after an item
// row. A following item row is never taken as category text.
func backfillCategory(item *models.LineItem, next string) {
	if itemRowRe.MatchString(next) {
		return
	}
	if m := categoryLineRe.FindStringSubmatch(next); m != nil {
		item.Category = strings.TrimSpace(m[1])
		item.ProductCode = m[2]
	}
}

// titleCase canonicalizes OCR casing such as "FIRST CLASS".
func titleCase(s string) string {
	// Casers keep state, so one is made per call.
	return cases.Title(language.English).String(strings.ToLower(s))
}
