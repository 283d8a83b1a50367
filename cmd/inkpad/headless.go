package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"inkpad/internal/config"
	"inkpad/internal/diagnostics"
	"inkpad/internal/narrative"
	"inkpad/internal/syncer"
)

// headless 在没有终端界面时充当编辑器与提示的接收者。
type headless struct {
	text    string
	markers []diagnostics.Marker
	notes   []string

	sync     *syncer.Synchronizer
	renderer *narrative.Renderer
}

func newHeadless(cfg config.Config, transport syncer.Transport, text string) *headless {
	h := &headless{text: text, renderer: narrative.NewRenderer()}
	h.sync = syncer.New(syncer.Options{
		Transport: transport,
		Mapper:    diagnostics.NewMapper(h, h, cfg.ToastDuration()),
		Renderer:  h.renderer,
		Notifier:  h,
		Timeout:   cfg.RequestTimeout(),
		ToastFor:  cfg.ToastDuration(),
	})
	return h
}

func (h *headless) Value() string { return h.text }

func (h *headless) SetMarkers(markers []diagnostics.Marker) {
	h.markers = append([]diagnostics.Marker(nil), markers...)
}

func (h *headless) Notify(_ diagnostics.Kind, message string, _ time.Duration) {
	h.notes = append(h.notes, message)
}

// takeNotes 返回并清空累计的提示。
func (h *headless) takeNotes() []string {
	notes := h.notes
	h.notes = nil
	return notes
}

// printProblems 以 file:ln: msg 形式输出，没有行号的诊断只带文件名。
func (h *headless) printProblems(out io.Writer, name string) {
	for _, mk := range h.markers {
		_, _ = fmt.Fprintf(out, "%s:%d: %s\n", name, mk.StartLine, mk.Message)
	}
	for _, note := range h.takeNotes() {
		_, _ = fmt.Fprintf(out, "%s: %s\n", name, note)
	}
}

// printLatest 输出最新一段文本与当前可选项。
func (h *headless) printLatest(out io.Writer) {
	texts := h.renderer.Texts()
	if len(texts) > 0 {
		_, _ = fmt.Fprintln(out, strings.TrimRight(texts[len(texts)-1], "\n"))
	}
	entries := h.renderer.Entries()
	if i, ok := lastText(entries); ok && len(entries[i].Tags) > 0 {
		_, _ = fmt.Fprintf(out, "# %s\n", strings.Join(entries[i].Tags, " # "))
	}
	for _, opt := range h.renderer.Options() {
		_, _ = fmt.Fprintf(out, "  [%d] %s\n", opt.Index+1, opt.Label)
	}
	if h.renderer.Ended() {
		_, _ = fmt.Fprintln(out, "— THE END —")
	}
}

func lastText(entries []narrative.Entry) (int, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == narrative.EntryText {
			return i, true
		}
	}
	return 0, false
}
