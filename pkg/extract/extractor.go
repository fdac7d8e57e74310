// Package extract reads invoice fields out of raw OCR text.
//
// Two independent passes run over the same text: a battery of field rules,
// each of which may fail on its own, and a single forward scan that collects
// line items up to the bill-to block. Assemble merges both into a record and
// fills anything missing with defaults, so extraction itself never fails.
package extract

import (
	"go.uber.org/zap"

	"scan-in/pkg/fuzzy"
	"scan-in/pkg/models"
)

// Extractor turns OCR text into invoice records. It holds no per-request
// state and is safe for concurrent use.
type Extractor struct {
	lexicon      Lexicon
	placeholders Placeholders
	threshold    float64
	logger       *zap.Logger

	rules   []Rule
	scanner *Scanner
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLexicon replaces the closed word lists.
func WithLexicon(lex Lexicon) Option {
	return func(e *Extractor) {
		e.lexicon = lex
	}
}

// WithPlaceholders replaces the fixed record values.
func WithPlaceholders(p Placeholders) Option {
	return func(e *Extractor) {
		e.placeholders = p
	}
}

// WithThreshold sets the similarity needed for a fuzzy keyword match.
func WithThreshold(threshold float64) Option {
	return func(e *Extractor) {
		if threshold > 0 && threshold <= 1 {
			e.threshold = threshold
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		lexicon:      DefaultLexicon(),
		placeholders: DefaultPlaceholders(),
		threshold:    fuzzy.DefaultThreshold,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = buildRules(e.lexicon, e.threshold, e.logger)
	e.scanner = NewScanner(e.lexicon)
	return e
}

// Fields runs every field rule over t.
func (e *Extractor) Fields(t RawText) Fields {
	return runRules(e.rules, t)
}

// Scan runs the line-item scanner over t.
func (e *Extractor) Scan(t RawText) ScanResult {
	return e.scanner.Scan(t)
}

// Extract produces the invoice record for t.
func (e *Extractor) Extract(t RawText) models.InvoiceRecord {
	fields := e.Fields(t)
	scan := e.Scan(t)

	e.logger.Debug("invoice text extracted",
		zap.Int("fields_matched", len(fields)),
		zap.Int("items_scanned", len(scan.Items)),
		zap.Stringer("scan_state", scan.State),
		zap.Int("lines_examined", scan.Examined))

	return Assemble(fields, scan, e.placeholders)
}

// ExtractText is Extract for a plain string.
func (e *Extractor) ExtractText(text string) models.InvoiceRecord {
	return e.Extract(NewRawText(text))
}
