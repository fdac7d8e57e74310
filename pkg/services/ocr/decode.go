package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// pdfDPI is the resolution the first PDF page is rendered at.
const pdfDPI = 200

// Decode turns an upload into an image. PDFs are rendered from their
// first page. The content type is only a hint; the bytes are sniffed.
func Decode(data []byte, contentType string) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}

	mime := mimetype.Detect(data)
	switch {
	case mime.Is("application/pdf"):
		img, err := firstPDFPage(data)
		return img, "pdf", err
	case mime.Is("image/heic") || mime.Is("image/heif") || isHEICMimeType(contentType):
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: heic: %v", ErrDecode, err)
		}
		return img, "heic", nil
	case strings.HasPrefix(mime.String(), "image/"):
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, mime.String(), err)
		}
		return img, strings.TrimPrefix(mime.String(), "image/"), nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime.String())
	}
}

func firstPDFPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf: %v", ErrDecode, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrDecode)
	}
	img, err := doc.ImageDPI(0, pdfDPI)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering pdf page: %v", ErrDecode, err)
	}
	return img, nil
}

func isHEICMimeType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.Contains(ct, "heic") || strings.Contains(ct, "heif")
}
