package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Plain 返回去掉样式后的文本。
func (l Line) Plain() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Buffer 按行收集渲染结果。
type Buffer struct {
	Lines []Line
}

// WriteLines 追加多行。
func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

// LinesToStrings 将样式化的行转换为终端字符串。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		out = append(out, line.Style.Render(strings.Join(segments, "")))
	}
	return out
}

// LinesToPlain 将行转换为无样式文本，用于复制与测试。
func LinesToPlain(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Plain())
	}
	return out
}
