package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// twoTone is a page that is dark on the left and light on the right.
func twoTone(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(230)
			if x < w/2 {
				v = 20
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeEngine struct {
	text        string
	err         error
	gotDeadline bool
	gotSize     image.Point
}

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	_, f.gotDeadline = ctx.Deadline()
	f.gotSize = img.Bounds().Size()
	return f.text, f.err
}

func TestDecode(t *testing.T) {
	img, format, err := Decode(pngBytes(t, twoTone(40, 20)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(40, 20), img.Bounds().Size())

	_, _, err = Decode(nil, "image/png")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, _, err = Decode([]byte("Invoice #1234\nTotal $5.00\n"), "application/octet-stream")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	truncated := pngBytes(t, twoTone(40, 20))[:60]
	_, _, err = Decode(truncated, "image/png")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEnhanceForOCR(t *testing.T) {
	out := EnhanceForOCR(twoTone(100, 50))

	assert.Equal(t, targetHeight, out.Bounds().Dy(), "small scans are upscaled")
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 37 {
		for x := b.Min.X; x < b.Max.X; x += 37 {
			v := out.NRGBAAt(x, y).R
			assert.True(t, v == 0 || v == 255, "pixel %d,%d is %d", x, y, v)
		}
	}
	assert.Equal(t, uint8(0), out.NRGBAAt(b.Min.X+5, b.Min.Y+5).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(b.Max.X-5, b.Min.Y+5).R)
}

func TestOtsuThreshold(t *testing.T) {
	cut := otsuThreshold(twoTone(10, 10))
	assert.GreaterOrEqual(t, cut, uint8(20))
	assert.Less(t, cut, uint8(230))
}

func TestServiceExtractText(t *testing.T) {
	engine := &fakeEngine{text: "Order #1234"}
	svc := NewService(engine, time.Minute, zaptest.NewLogger(t))

	text, err := svc.ExtractText(context.Background(), pngBytes(t, twoTone(40, 20)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Order #1234", text)
	assert.True(t, engine.gotDeadline)
	assert.Equal(t, targetHeight, engine.gotSize.Y)
}

func TestServiceExtractTextErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(&fakeEngine{err: boom}, 0, nil)

	_, err := svc.ExtractText(context.Background(), pngBytes(t, twoTone(4, 4)), "")
	assert.ErrorIs(t, err, boom)

	_, err = svc.ExtractText(context.Background(), []byte("%!PS-Adobe"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(Settings{Engine: "azure"})
	assert.Error(t, err)

	e, err := NewEngine(Settings{AzureEndpoint: "https://example.cognitiveservices.azure.com/", AzureKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AzureEngine{}, e)

	_, err = NewEngine(Settings{Engine: "papyrus"})
	assert.Error(t, err)
}

func ptr(s string) *string { return &s }

func TestLinesFromResult(t *testing.T) {
	word := func(s string) computervision.OcrWord { return computervision.OcrWord{Text: ptr(s)} }
	result := computervision.OcrResult{
		Regions: &[]computervision.OcrRegion{
			{Lines: &[]computervision.OcrLine{
				{BoundingBox: ptr("400,90,80,20"), Words: &[]computervision.OcrWord{word("Total"), word("$35.00")}},
				{BoundingBox: ptr("10,10,200,20"), Words: &[]computervision.OcrWord{word("Order"), word("#1234")}},
				{BoundingBox: nil, Words: &[]computervision.OcrWord{word("dropped")}},
			}},
			{Lines: &[]computervision.OcrLine{
				{BoundingBox: ptr("10,90,120,20"), Words: &[]computervision.OcrWord{word("Subtotal"), word("$30.00")}},
			}},
			{},
		},
	}

	lines := linesFromResult(result)
	require.Len(t, lines, 3)
	assert.Equal(t, "Order #1234\nSubtotal $30.00\nTotal $35.00", joinLines(lines))
	assert.Nil(t, linesFromResult(computervision.OcrResult{}))
}
