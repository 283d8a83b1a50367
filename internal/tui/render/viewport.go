package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// StoryViewport 包装 bubbles viewport，追加内容时保持贴底。
type StoryViewport struct {
	viewport.Model
	lastLines []string
}

func NewStoryViewport(width, height int) StoryViewport {
	return StoryViewport{Model: viewport.New(width, height)}
}

// Resize 更新宽高；宽度变化时丢弃缓存，下一次 SetLines 必然重写内容。
func (v *StoryViewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width != width {
		v.lastLines = nil
	}
	v.Width = width
	v.Height = height
}

// HandleUpdate 代理 bubbles 的 Update。
func (v *StoryViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines 内容未变化时什么也不做；原本在底部时追加后仍停在底部。
func (v *StoryViewport) SetLines(lines []string) {
	if v == nil || (v.lastLines != nil && slices.Equal(lines, v.lastLines)) {
		return
	}
	stick := v.lastLines == nil || v.AtBottom()
	v.lastLines = append([]string{}, lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stick {
		v.GotoBottom()
	}
}
