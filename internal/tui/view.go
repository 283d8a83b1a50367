package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"inkpad/internal/diagnostics"
	"inkpad/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
)

// problemsHeight 为问题列表预留的行数（不含边框）。
const problemsHeight = 4

var (
	accent       = lipgloss.Color("#7D56F4")
	muted        = lipgloss.Color("#7D7A85")
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D73A49"))
	gutterStyle  = lipgloss.NewStyle().Foreground(muted)
	toastStyles  = map[diagnostics.Kind]lipgloss.Style{
		diagnostics.KindError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D73A49")),
		diagnostics.KindWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E36209")),
		diagnostics.KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0366D6")),
	}
)

func (m *Model) View() string {
	header := renderHeader(m.scriptTitle(), m.SessionID(), m.Unsaved(), m.width)
	left := maxInt(20, m.width/2)
	right := maxInt(20, m.width-left)

	editorPane := renderPane("Script", m.editor.View(), left, m.editor.Height(), m.focus == focusEditor)
	problems := renderPane("Problems", strings.Join(m.problemLines(left-4), "\n"), left, problemsHeight, false)
	storyPane := renderPane("Story", m.story.View(), right, m.story.Height, m.focus == focusStory)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, editorPane, problems),
		storyPane,
	)
	content := lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine(), renderHints(m.focus, m.width))

	if m.fatal != nil {
		overlay := modalStyle.Render(m.fatalView(minInt(60, maxInt(30, m.width-8))))
		return lipgloss.JoinVertical(lipgloss.Left, content, overlay)
	}
	return content
}

// chromeHeight 是编辑区以外占用的行数：标题框、面板边框、问题列表、状态行与提示。
func (m *Model) chromeHeight() int {
	const header, paneBorders, status, hints = 3, 3, 1, 1
	return header + paneBorders + status + hints
}

func (m *Model) scriptTitle() string {
	if m.scriptPath == "" {
		return "untitled"
	}
	return filepath.Base(m.scriptPath)
}

// problemLines 每个标记两行：位置与消息、带高亮的源码行。
func (m *Model) problemLines(width int) []string {
	if len(m.markers) == 0 {
		return []string{gutterStyle.Render("No problems.")}
	}
	source := strings.Split(m.editor.Value(), "\n")
	lines := []render.Line{}
	for _, mk := range m.markers {
		lines = append(lines, render.Line{Spans: []render.Span{
			{Text: fmt.Sprintf("ln %d: ", mk.StartLine), Style: problemStyle},
			{Text: mk.Message},
		}})
		if mk.StartLine <= len(source) {
			code := render.HighlightInkLine(source[mk.StartLine-1])
			lines = append(lines, render.PrefixLines([]render.Line{code},
				render.Span{Text: "  │ ", Style: gutterStyle},
				render.Span{Text: "  │ ", Style: gutterStyle},
			)...)
		}
	}
	out := render.LinesToStrings(lines)
	if len(out) > problemsHeight {
		out = append(out[:problemsHeight-1], gutterStyle.Render(fmt.Sprintf("… %s in total", plural(len(m.markers), "problem"))))
	}
	for i := range out {
		out[i] = lipgloss.NewStyle().MaxWidth(maxInt(1, width)).Render(out[i])
	}
	return out
}

func (m *Model) statusLine() string {
	width := maxInt(20, m.width)
	line := m.status.Line(m.spin.View(), width/2)
	parts := []string{render.LinesToStrings([]render.Line{line})[0]}
	if t, ok := m.toasts.current(); ok {
		parts = append(parts, toastStyles[t.kind].Render(t.text))
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(width).
		MaxHeight(1).
		Render(strings.Join(parts, "  "))
}

func renderHeader(title, sessionID string, unsaved bool, width int) string {
	left := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("inkpad")
	info := []string{title}
	if unsaved {
		info[0] += " •"
	}
	if sessionID != "" {
		info = append(info, "session "+shortID(sessionID))
	}
	right := lipgloss.NewStyle().Foreground(muted).Render(strings.Join(info, " • "))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(maxInt(20, width-2)).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().PaddingLeft(2).Render(right)))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func renderPane(title string, body string, width int, height int, focused bool) string {
	border := lipgloss.Color("#5E6472")
	if focused {
		border = accent
	}
	titleText := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(maxInt(1, width-2))
	}
	if height > 0 {
		style = style.Height(height + 1)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, titleText, body))
}

func renderHints(focus focusPane, width int) string {
	hint := "Tab 切换到故事 • Ctrl+S 保存 • Ctrl+Y 复制故事 • Ctrl+C 退出"
	if focus == focusStory {
		hint = "1-9 选择 • ↑/↓ 移动 • Enter 确认 • PgUp/PgDn 滚动 • Tab 回到脚本 • Ctrl+C 退出"
	}
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 1).
		Width(maxInt(20, width)).
		Render(hint)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
