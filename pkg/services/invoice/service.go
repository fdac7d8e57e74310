package invoice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"scan-in/pkg/extract"
	"scan-in/pkg/models"
)

// TextReader produces OCR text from an uploaded file.
type TextReader interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}

// Service turns uploaded invoices into records.
type Service struct {
	reader    TextReader
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewService creates a new invoice service.
func NewService(reader TextReader, extractor *extract.Extractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, extractor: extractor, logger: logger}
}

// Process runs OCR on data and extracts the invoice. Only OCR can fail;
// extraction always yields a complete record.
func (s *Service) Process(ctx context.Context, data []byte, contentType string) (models.InvoiceRecord, error) {
	start := time.Now()

	text, err := s.reader.ExtractText(ctx, data, contentType)
	if err != nil {
		return models.InvoiceRecord{}, err
	}
	s.logger.Debug("ocr text", zap.String("text", text))

	rec := s.extractor.Extract(extract.NewRawText(text))

	s.logger.Info("invoice processed",
		zap.Int("bytes", len(data)),
		zap.String("content_type", contentType),
		zap.String("invoice_number", rec.InvoiceNumber),
		zap.Int("items", len(rec.Items)),
		zap.Duration("elapsed", time.Since(start)))
	return rec, nil
}
