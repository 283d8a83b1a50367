package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	knotStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D73A49"))
	choiceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	divertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0366D6"))
	keywordStyle = lipgloss.NewStyle().Bold(true)
)

// HighlightInkLine 用轻量规则高亮一行 ink 脚本：
// 注释与 tag 被 dim，knot 标题加粗，choice/gather 标记着色，divert 及 END/DONE 单独标出。
func HighlightInkLine(raw string) Line {
	if raw == "" {
		return Line{}
	}
	trimmed := strings.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(trimmed)]
	spans := []Span{}
	if indent != "" {
		spans = append(spans, Span{Text: indent})
	}

	switch {
	case strings.HasPrefix(trimmed, "//"):
		return Line{Spans: append(spans, Span{Text: trimmed, Style: dimStyle})}
	case strings.HasPrefix(trimmed, "=="), strings.HasPrefix(trimmed, "= "):
		return Line{Spans: append(spans, Span{Text: trimmed, Style: knotStyle})}
	}

	marker := leadingMarker(trimmed)
	if marker != "" {
		style := choiceStyle
		if marker[0] == '-' {
			style = dimStyle
		}
		spans = append(spans, Span{Text: marker, Style: style})
		trimmed = trimmed[len(marker):]
	}
	return Line{Spans: append(spans, bodySpans(trimmed)...)}
}

// leadingMarker 返回行首的 choice（* / +）或 gather（-）标记及其后空白。
// "->" 是 divert，不算 gather。
func leadingMarker(s string) string {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '*' || c == '+' || (c == '-' && !strings.HasPrefix(s[i:], "->")) {
			i++
			continue
		}
		if (c == ' ' || c == '\t') && i > 0 {
			i++
			continue
		}
		break
	}
	return s[:i]
}

func bodySpans(s string) []Span {
	spans := []Span{}
	text := s
	tag := ""
	if idx := strings.Index(s, "#"); idx >= 0 {
		text, tag = s[:idx], s[idx:]
	}
	if idx := strings.Index(text, "->"); idx >= 0 {
		if idx > 0 {
			spans = append(spans, Span{Text: text[:idx]})
		}
		target := text[idx:]
		style := divertStyle
		name := strings.TrimSpace(strings.TrimPrefix(target, "->"))
		if name == "END" || name == "DONE" {
			style = keywordStyle
		}
		spans = append(spans, Span{Text: target, Style: style})
	} else if text != "" {
		spans = append(spans, Span{Text: text})
	}
	if tag != "" {
		spans = append(spans, Span{Text: tag, Style: dimStyle})
	}
	return spans
}
