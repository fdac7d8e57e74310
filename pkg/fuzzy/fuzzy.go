// Package fuzzy finds OCR lines that approximately contain a keyword.
package fuzzy

import (
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the minimum similarity accepted as a match.
const DefaultThreshold = 0.6

var params = levenshtein.NewParams()

// Ratio returns the case-insensitive edit-distance similarity of a and b,
// from 0 (nothing in common) to 1 (identical).
func Ratio(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), params)
}

// FindLine returns the first line with a whitespace-separated token whose
// similarity to keyword is at least threshold.
func FindLine(lines []string, keyword string, threshold float64) (string, bool) {
	for _, line := range lines {
		for _, token := range strings.Fields(line) {
			if Ratio(token, keyword) >= threshold {
				return line, true
			}
		}
	}
	return "", false
}

// FindLineWhole is the coarse variant of FindLine: each trimmed line is
// compared to keyword as a whole.
func FindLineWhole(lines []string, keyword string, threshold float64) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if Ratio(trimmed, keyword) >= threshold {
			return line, true
		}
	}
	return "", false
}

// FindLineOr runs FindLine and, when nothing qualifies, falls back to the
// first line containing literal, a known OCR misreading of keyword.
func FindLineOr(lines []string, keyword string, threshold float64, literal string) (line string, ok, viaLiteral bool) {
	if line, ok := FindLine(lines, keyword, threshold); ok {
		return line, true, false
	}
	if literal == "" {
		return "", false, false
	}
	for _, line := range lines {
		if strings.Contains(line, literal) {
			return line, true, true
		}
	}
	return "", false, false
}
