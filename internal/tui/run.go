package tui

import (
	"errors"

	"inkpad/internal/narrative"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 运行后需要持久化的内容。
type Result struct {
	Script    string
	SessionID string
	Entries   []narrative.Entry
	Ended     bool
	Unsaved   bool
	// Fatal 为使同步停止的错误；正常退出时为 nil。
	Fatal error
}

// Run 封装 Bubble Tea 入口，返回最终的 UI 结果。
func Run(opts Options) (Result, error) {
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	tuiModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{
		Script:    tuiModel.Script(),
		SessionID: tuiModel.SessionID(),
		Entries:   tuiModel.Entries(),
		Ended:     tuiModel.Ended(),
		Unsaved:   tuiModel.Unsaved(),
		Fatal:     tuiModel.Fatal(),
	}, nil
}
