package render

import (
	"fmt"
	"strings"

	"inkpad/internal/narrative"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle    = lipgloss.NewStyle()
	tagStyle        = lipgloss.NewStyle().Faint(true).Italic(true)
	currentSepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0366D6"))
	oldSepStyle     = lipgloss.NewStyle().Faint(true)
	optionKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	optionStyle     = lipgloss.NewStyle()
	selectedStyle   = lipgloss.NewStyle().Reverse(true)
	endStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a"))
	placeholder     = lipgloss.NewStyle().Faint(true)
)

// EndIndicator is shown permanently once the story ended.
const EndIndicator = "THE END"

// Transcript is everything needed to draw the story pane.
type Transcript struct {
	Entries  []narrative.Entry
	Options  []narrative.Option
	State    narrative.State
	Selected int
}

// FromRenderer snapshots r.
func FromRenderer(r *narrative.Renderer, selected int) Transcript {
	return Transcript{
		Entries:  r.Entries(),
		Options:  r.Options(),
		State:    r.State(),
		Selected: selected,
	}
}

// RenderTranscript draws t from scratch; it keeps no state between calls.
func RenderTranscript(t Transcript, width int) []Line {
	if width <= 0 {
		width = 80
	}
	if t.State == narrative.StateEmpty {
		return []Line{{Spans: []Span{{Text: "Edit the script to start the story.", Style: placeholder}}}}
	}

	out := []Line{}
	for _, e := range t.Entries {
		switch e.Kind {
		case narrative.EntrySeparator:
			out = append(out, separatorLine(e.Text, width))
		default:
			out = append(out, wrapLines(strings.Trim(e.Text, "\n"), width, sectionStyle)...)
			if len(e.Tags) > 0 {
				out = append(out, wrapLines("# "+strings.Join(e.Tags, " # "), width, tagStyle)...)
			}
		}
	}

	switch t.State {
	case narrative.StateEnded:
		out = append(out, Line{}, Line{Spans: []Span{{Text: fmt.Sprintf("— %s —", EndIndicator), Style: endStyle}}})
	case narrative.StateActive:
		out = append(out, optionLines(t.Options, t.Selected, width)...)
	}
	return out
}

func separatorLine(label string, width int) Line {
	if label == narrative.LabelCurrent {
		rule := strings.Repeat("─", maxInt(0, minInt(width, 40)-len(label)-4))
		return Line{Spans: []Span{{Text: "── " + label + " " + rule, Style: currentSepStyle}}}
	}
	return Line{Spans: []Span{{Text: label, Style: oldSepStyle}}}
}

func optionLines(opts []narrative.Option, selected int, width int) []Line {
	out := []Line{}
	for i, opt := range opts {
		key := fmt.Sprintf("[%d] ", opt.Index+1)
		style := optionStyle
		if i == selected {
			style = selectedStyle
		}
		body := wrapLines(opt.Label, maxInt(1, width-len(key)), style)
		out = append(out, PrefixLines(body,
			Span{Text: key, Style: optionKeyStyle},
			Span{Text: strings.Repeat(" ", len(key))},
		)...)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
