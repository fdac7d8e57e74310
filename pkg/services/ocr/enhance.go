package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Scans shorter than minHeight are upscaled to targetHeight first.
const (
	minHeight    = 800
	targetHeight = 1200
)

// EnhanceForOCR converts img to a black and white image: grayscale, a light
// blur against speckle noise, then a global threshold picked from the image
// histogram (Otsu's method).
func EnhanceForOCR(img image.Image) *image.NRGBA {
	if img.Bounds().Dy() < minHeight {
		img = imaging.Resize(img, 0, targetHeight, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	blurred := imaging.Blur(gray, 1.0)
	cut := otsuThreshold(blurred)

	return imaging.AdjustFunc(blurred, func(c color.NRGBA) color.NRGBA {
		v := uint8(0)
		if c.R > cut {
			v = 255
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})
}

// otsuThreshold returns the gray level that best separates ink from paper.
// img must already be grayscale.
func otsuThreshold(img *image.NRGBA) uint8 {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.NRGBAAt(x, y).R]++
		}
	}

	total := float64(b.Dx() * b.Dy())
	var sum float64
	for level, n := range hist {
		sum += float64(level * n)
	}

	var (
		sumBack, weightBack, best float64
		cut                       uint8
	)
	for level, n := range hist {
		weightBack += float64(n)
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(level * n)
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		between := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if between > best {
			best = between
			cut = uint8(level)
		}
	}
	return cut
}
