//go:build !tesseract

package ocr

import "fmt"

// NewTesseractEngine reports that the binary was built without the
// tesseract tag, which needs libtesseract and cgo.
func NewTesseractEngine(string) (Engine, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags tesseract", ErrEngineUnavailable)
}
