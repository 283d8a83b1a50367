package tui

import (
	"time"

	"inkpad/internal/diagnostics"

	tea "github.com/charmbracelet/bubbletea"
)

type toast struct {
	id   uint64
	kind diagnostics.Kind
	text string
}

type toastExpiredMsg struct {
	id uint64
}

// toastQueue 保存尚未过期的提示，状态行只显示最新一条。
type toastQueue struct {
	next  uint64
	items []toast
}

func (q *toastQueue) push(kind diagnostics.Kind, text string) uint64 {
	q.next++
	q.items = append(q.items, toast{id: q.next, kind: kind, text: text})
	return q.next
}

func (q *toastQueue) expire(id uint64) {
	for i, t := range q.items {
		if t.id == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *toastQueue) current() (toast, bool) {
	if len(q.items) == 0 {
		return toast{}, false
	}
	return q.items[len(q.items)-1], true
}

func (q *toastQueue) len() int {
	return len(q.items)
}

// Notify 实现 diagnostics.Notifier：只在 Update 内被调用，过期计时通过 tea.Tick 回到循环。
func (m *Model) Notify(kind diagnostics.Kind, message string, d time.Duration) {
	if d <= 0 {
		d = m.cfg.ToastDuration()
	}
	id := m.toasts.push(kind, message)
	m.log.WithField("kind", string(kind)).Debugf("toast: %s", message)
	m.deferred = append(m.deferred, tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	}))
}
