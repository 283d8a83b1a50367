package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLinesToPlain(t *testing.T) {
	lines := []Line{
		{
			Spans: []Span{
				{Text: "[1] ", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))},
				{Text: "open the door", Style: lipgloss.NewStyle().Bold(true)},
			},
		},
		{Spans: []Span{}},
	}

	got := LinesToPlain(lines)
	want := []string{"[1] open the door", ""}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d mismatch: got %q want %q", i, got[i], want[i])
		}
		if strings.Contains(got[i], "\x1b") {
			t.Errorf("line %d contains ANSI sequences: %q", i, got[i])
		}
	}
}
