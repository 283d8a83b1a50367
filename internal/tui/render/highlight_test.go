package render

import "testing"

func TestHighlightInkLine_KeepsText(t *testing.T) {
	cases := []string{
		"",
		"=== cellar ===",
		"// a note",
		"* [Open the door] -> hall",
		"  + Wait # patient",
		"- - gather",
		"-> END",
		"Plain text with a # tag",
		"The end. -> DONE",
	}
	for _, raw := range cases {
		if got := HighlightInkLine(raw).Plain(); got != raw {
			t.Errorf("HighlightInkLine(%q).Plain() = %q", raw, got)
		}
	}
}

func TestHighlightInkLine_Spans(t *testing.T) {
	line := HighlightInkLine("* Open -> hall # blue")
	var texts []string
	for _, sp := range line.Spans {
		texts = append(texts, sp.Text)
	}
	want := []string{"* ", "Open ", "-> hall ", "# blue"}
	if len(texts) != len(want) {
		t.Fatalf("spans = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("spans = %q, want %q", texts, want)
		}
	}

	divert := HighlightInkLine("-> END")
	if len(divert.Spans) != 1 || divert.Spans[0].Text != "-> END" {
		t.Fatalf("a divert must not be read as a gather: %+v", divert.Spans)
	}
}
