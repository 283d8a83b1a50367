package tui

import (
	"errors"
	"strings"

	"inkpad/internal/session"
	"inkpad/internal/syncer"
	tuirender "inkpad/internal/tui/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("#D73A49")).
	Padding(0, 1)

// fatalView 渲染同步停止后的阻塞提示；此后只接受退出。
func (m *Model) fatalView(width int) string {
	if m.fatal == nil {
		return ""
	}
	contentWidth := maxInt(20, width)
	titleStyle := lipgloss.NewStyle().Bold(true)
	hintStyle := lipgloss.NewStyle().Bold(true)

	title, detail := fatalText(m.fatal)
	lines := []string{titleStyle.Render(title)}
	lines = append(lines, "")
	lines = append(lines, indentLines(tuirender.WrapText(detail, contentWidth-2))...)
	lines = append(lines, "", "The story service no longer matches this editor. Restart inkpad to continue.")
	lines = append(lines, "", hintStyle.Render("[q] quit"))
	return lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func fatalText(err error) (string, string) {
	var conflict *session.ConflictError
	var precondition *syncer.PreconditionError
	switch {
	case errors.As(err, &conflict):
		return "Session conflict", "local session " + conflict.Local + ", server answered " + conflict.Remote
	case errors.As(err, &precondition):
		return "Invalid request", precondition.Error()
	default:
		return "Synchronization stopped", err.Error()
	}
}

func indentLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, "  "+line)
	}
	return out
}

func (m *Model) handleFatalKey(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "q", "esc", "ctrl+c", "enter":
		return m.quit()
	}
	return nil
}
