package ocr

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// TextLine is a line of text with its position from OCR
type TextLine struct {
	Text   string
	X      int
	Y      int
	Width  int
	Height int
}

// AzureEngine runs OCR through the Azure Computer Vision API.
type AzureEngine struct {
	client *computervision.BaseClient
}

// NewAzureEngine creates an engine for the given endpoint and key.
func NewAzureEngine(endpoint, apiKey string) *AzureEngine {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)
	return &AzureEngine{client: &client}
}

// Recognize sends img as PNG and returns the recognized lines top to bottom.
func (e *AzureEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	result, err := e.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(&buf),
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return "", fmt.Errorf("azure ocr: %w", err)
	}
	return joinLines(linesFromResult(result)), nil
}

// linesFromResult flattens the OCR regions into positioned lines, sorted
// into reading order. Lines without a bounding box are dropped.
func linesFromResult(result computervision.OcrResult) []TextLine {
	if result.Regions == nil {
		return nil
	}
	var textLines []TextLine
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			box := parseBoundingBox(line.BoundingBox)
			if len(box) < 4 || line.Words == nil {
				continue
			}

			words := make([]string, 0, len(*line.Words))
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			textLines = append(textLines, TextLine{
				Text:   strings.Join(words, " "),
				X:      box[0],
				Y:      box[1],
				Width:  box[2],
				Height: box[3],
			})
		}
	}

	slices.SortStableFunc(textLines, func(a, b TextLine) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return textLines
}

// parseBoundingBox reads Azure's "x,y,w,h" box.
func parseBoundingBox(raw *string) []int {
	if raw == nil {
		return nil
	}
	parts := strings.Split(*raw, ",")
	box := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		box = append(box, v)
	}
	return box
}

func joinLines(lines []TextLine) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
