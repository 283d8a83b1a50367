package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// WrapText 按词换行，宽度以终端列计算。
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	current := ""
	for _, word := range strings.Fields(line) {
		ww := runewidth.StringWidth(word)
		if current == "" {
			if ww > width {
				out = append(out, breakLongWord(word, width)...)
				continue
			}
			current = word
			continue
		}
		if runewidth.StringWidth(current)+1+ww <= width {
			current += " " + word
			continue
		}
		out = append(out, current)
		if ww > width {
			out = append(out, breakLongWord(word, width)...)
			current = ""
			continue
		}
		current = word
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

func breakLongWord(word string, width int) []string {
	out := []string{}
	current := []rune{}
	w := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && len(current) > 0 {
			out = append(out, string(current))
			current = current[:0]
			w = 0
		}
		current = append(current, r)
		w += rw
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}

func wrapLines(content string, width int, style lipgloss.Style) []Line {
	lines := WrapText(content, width)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{Spans: []Span{{Text: l, Style: style}}})
	}
	return out
}
