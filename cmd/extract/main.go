// Command extract prints the invoice record found in OCR text, or in an
// image or PDF when --ocr is set.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.uber.org/zap"

	"scan-in/pkg/config"
	"scan-in/pkg/extract"
	"scan-in/pkg/logger"
	"scan-in/pkg/services/ocr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := ff.NewFlagSet("extract")
	var (
		input     = fs.StringLong("input", "-", "File to read, - for stdin")
		useOCR    = fs.BoolLong("ocr", "Treat the input as an image or PDF and run OCR first")
		pretty    = fs.BoolLong("pretty", "Indent the JSON output")
		threshold = fs.Float64Long("threshold", 0, "Fuzzy match threshold, 0 for the configured default")
		logLevel  = fs.StringLong("log-level", "warn", "Log level")
	)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("SCANIN")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	zl, err := logger.New(*logLevel, "console")
	if err != nil {
		return err
	}
	defer zl.Sync()

	data, err := readInput(*input, stdin)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if *threshold > 0 {
		cfg.Threshold = *threshold
	}

	text := string(data)
	if *useOCR {
		engine, err := ocr.NewEngine(cfg.OCR)
		if err != nil {
			return err
		}
		text, err = ocr.NewService(engine, cfg.OCRTimeout, zl).ExtractText(ctx, data, "")
		if err != nil {
			return err
		}
	}

	rec := extract.New(
		extract.WithLexicon(cfg.Lexicon()),
		extract.WithThreshold(cfg.Threshold),
		extract.WithLogger(zl),
	).ExtractText(text)
	zl.Debug("extracted", zap.String("invoice_number", rec.InvoiceNumber))

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rec)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
