package extract

import "strings"

// RawText is the OCR output for one invoice. It is never modified after
// construction.
type RawText struct {
	text  string
	lines []string
}

// NewRawText splits OCR output into lines.
func NewRawText(text string) RawText {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return RawText{text: text, lines: strings.Split(text, "\n")}
}

// RawTextFromLines joins already split lines.
func RawTextFromLines(lines []string) RawText {
	return NewRawText(strings.Join(lines, "\n"))
}

func (t RawText) String() string { return t.text }

// Lines returns a copy of every line, blank ones included.
func (t RawText) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// content returns the trimmed non-blank lines in order.
func (t RawText) content() []string {
	out := make([]string, 0, len(t.lines))
	for _, l := range t.lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
