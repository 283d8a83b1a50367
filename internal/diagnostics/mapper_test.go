package diagnostics

import (
	"reflect"
	"testing"
	"time"

	"inkpad/internal/protocol"
)

type fakeEditor struct {
	text    string
	markers []Marker
	calls   int
}

func (e *fakeEditor) Value() string { return e.text }

func (e *fakeEditor) SetMarkers(markers []Marker) {
	e.calls++
	e.markers = append([]Marker(nil), markers...)
}

type toast struct {
	kind Kind
	msg  string
	d    time.Duration
}

type fakeNotifier struct {
	toasts []toast
}

func (n *fakeNotifier) Notify(kind Kind, message string, d time.Duration) {
	n.toasts = append(n.toasts, toast{kind, message, d})
}

func TestApply_LineMarkerSpansWholeLine(t *testing.T) {
	ed := &fakeEditor{text: "Hello\n* Pick me\n-> nowhere ü"}
	m := NewMapper(ed, &fakeNotifier{}, 0)

	m.Apply([]protocol.Diagnostic{{Line: 3, Message: "unexpected token"}})

	want := []Marker{{
		Message:     "unexpected token",
		Severity:    SeverityError,
		StartLine:   3,
		StartColumn: 1,
		EndLine:     3,
		EndColumn:   13,
	}}
	if !reflect.DeepEqual(ed.markers, want) {
		t.Fatalf("markers = %#v, want %#v", ed.markers, want)
	}
	if m.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", m.Active())
	}
}

func TestApply_GlobalDiagnosticBecomesToast(t *testing.T) {
	ed := &fakeEditor{text: "x"}
	n := &fakeNotifier{}
	m := NewMapper(ed, n, 2*time.Second)

	m.Apply([]protocol.Diagnostic{{Line: 0, Message: "story has no end"}})

	if len(ed.markers) != 0 {
		t.Fatalf("markers = %v, want none", ed.markers)
	}
	if len(n.toasts) != 1 || n.toasts[0] != (toast{KindError, "story has no end", 2 * time.Second}) {
		t.Fatalf("toasts = %#v", n.toasts)
	}
}

func TestApply_NewSetReplacesOld(t *testing.T) {
	ed := &fakeEditor{text: "a\nb\nc\nd"}
	m := NewMapper(ed, nil, 0)

	m.Apply([]protocol.Diagnostic{{Line: 1, Message: "one"}, {Line: 2, Message: "two"}})
	m.Apply([]protocol.Diagnostic{{Line: 4, Message: "four"}})
	if len(ed.markers) != 1 || ed.markers[0].StartLine != 4 {
		t.Fatalf("markers = %#v, want only line 4", ed.markers)
	}

	m.Apply(nil)
	if len(ed.markers) != 0 {
		t.Fatalf("markers after empty set = %#v, want none", ed.markers)
	}
	if m.Active() != 0 {
		t.Fatalf("Active() = %d, want 0", m.Active())
	}
}

func TestApply_LineBeyondBuffer(t *testing.T) {
	ed := &fakeEditor{text: "only line"}
	m := NewMapper(ed, nil, 0)

	m.Apply([]protocol.Diagnostic{{Line: 9, Message: "eof"}})
	if len(ed.markers) != 1 || ed.markers[0].StartLine != 9 || ed.markers[0].EndColumn != 1 {
		t.Fatalf("markers = %#v", ed.markers)
	}
}
