package tui

import (
	"fmt"
	"time"

	"inkpad/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// SyncState 枚举状态行可显示的同步状态。
type SyncState int

const (
	// SyncIdle 表示没有请求在途，脚本与故事一致。
	SyncIdle SyncState = iota
	// SyncBusy 表示有请求在途，计时器持续累加。
	SyncBusy
	// SyncProblems 表示最近一次提交返回了解析错误。
	SyncProblems
	// SyncOffline 表示最近一次请求传输失败。
	SyncOffline
	// SyncHalted 表示同步已因致命错误停止。
	SyncHalted
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncBusy:
		return "busy"
	case SyncProblems:
		return "problems"
	case SyncOffline:
		return "offline"
	case SyncHalted:
		return "halted"
	default:
		return "unknown"
	}
}

func (s SyncState) header() string {
	switch s {
	case SyncBusy:
		return "Syncing"
	case SyncProblems:
		return "Problems"
	case SyncOffline:
		return "Offline"
	case SyncHalted:
		return "Halted"
	default:
		return "Synced"
	}
}

func (s SyncState) style() lipgloss.Style {
	switch s {
	case SyncProblems, SyncHalted:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D73A49"))
	case SyncOffline:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E36209"))
	case SyncBusy:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	}
}

// SyncStatus 管理状态行：状态标题 + 在途计时 + 附加说明。
type SyncStatus struct {
	state     SyncState
	detail    string
	startedAt time.Time
	last      time.Duration
	clock     func() time.Time
}

func NewSyncStatus(clock func() time.Time) *SyncStatus {
	if clock == nil {
		clock = time.Now
	}
	return &SyncStatus{clock: clock}
}

func (s *SyncStatus) State() SyncState {
	if s == nil {
		return SyncIdle
	}
	return s.state
}

// Begin 进入 Busy；连续请求不重置计时。
func (s *SyncStatus) Begin() {
	if s == nil || s.state == SyncHalted {
		return
	}
	if s.state != SyncBusy {
		s.startedAt = s.clock()
	}
	s.state = SyncBusy
	s.detail = ""
}

// Settle 结束 Busy 并记录本轮耗时。Halted 之后不再变化。
func (s *SyncStatus) Settle(state SyncState, detail string) {
	if s == nil || s.state == SyncHalted {
		return
	}
	if s.state == SyncBusy {
		s.last = s.clock().Sub(s.startedAt)
	}
	s.state = state
	s.detail = detail
}

// Elapsed 返回在途耗时，空闲时返回上一轮耗时。
func (s *SyncStatus) Elapsed() time.Duration {
	if s == nil {
		return 0
	}
	if s.state == SyncBusy {
		return s.clock().Sub(s.startedAt)
	}
	return s.last
}

// Line 绘制状态行；frame 为 spinner 当前帧，仅在 Busy 时使用。
func (s *SyncStatus) Line(frame string, width int) render.Line {
	if s == nil || width <= 0 {
		return render.Line{}
	}
	spans := []render.Span{}
	switch s.state {
	case SyncBusy:
		spans = append(spans, render.Span{Text: frame + " "})
	case SyncProblems, SyncOffline, SyncHalted:
		spans = append(spans, render.Span{Text: "! ", Style: s.state.style()})
	default:
		spans = append(spans, render.Span{Text: "• ", Style: s.state.style()})
	}
	spans = append(spans, render.Span{Text: s.state.header(), Style: s.state.style()})

	hint := fmtElapsedCompact(uint64(s.Elapsed().Seconds()))
	if s.detail != "" {
		hint = fmt.Sprintf("%s • %s", hint, s.detail)
	}
	spans = append(spans, render.Span{Text: " "}, render.Span{
		Text:  "(" + hint + ")",
		Style: lipgloss.NewStyle().Faint(true),
	})
	return render.Line{Spans: clampSpans(spans, width)}
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		text := runewidth.Truncate(sp.Text, remaining, "")
		if text != "" {
			sp.Text = text
			out = append(out, sp)
			remaining = 0
		}
	}
	return out
}
