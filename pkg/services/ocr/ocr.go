package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEmptyImage is returned for an empty upload.
	ErrEmptyImage = errors.New("empty image")
	// ErrUnsupportedFormat is returned for uploads that are neither an image nor a PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrDecode is returned when a supported file cannot be decoded.
	ErrDecode = errors.New("cannot decode file")
	// ErrEngineUnavailable is returned when the configured OCR engine is not built in.
	ErrEngineUnavailable = errors.New("ocr engine unavailable")
)

// Engine turns an image into raw text, one line per text line.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Settings selects and configures an Engine.
type Settings struct {
	Engine            string
	AzureEndpoint     string
	AzureKey          string
	TesseractLanguage string
}

// NewEngine creates the engine named in s.
func NewEngine(s Settings) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s.Engine)) {
	case "", "azure":
		if s.AzureEndpoint == "" || s.AzureKey == "" {
			return nil, fmt.Errorf("azure engine needs an endpoint and key")
		}
		return NewAzureEngine(s.AzureEndpoint, s.AzureKey), nil
	case "tesseract":
		return NewTesseractEngine(s.TesseractLanguage)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", s.Engine)
	}
}

// Service decodes an uploaded file, cleans it up and runs OCR on it.
type Service struct {
	engine  Engine
	timeout time.Duration
	logger  *zap.Logger
}

// NewService creates a new OCR service. A zero timeout disables the limit.
func NewService(engine Engine, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, timeout: timeout, logger: logger}
}

// ExtractText returns the OCR text of the first page of data.
func (s *Service) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	img, format, err := Decode(data, contentType)
	if err != nil {
		return "", err
	}

	start := time.Now()
	prepared := EnhanceForOCR(img)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.engine.Recognize(ctx, prepared)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	s.logger.Info("ocr finished",
		zap.String("format", format),
		zap.Int("width", prepared.Bounds().Dx()),
		zap.Int("height", prepared.Bounds().Dy()),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
