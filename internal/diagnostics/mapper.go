// Package diagnostics maps parse errors onto editor markers and toasts.
package diagnostics

import (
	"strings"
	"time"
	"unicode/utf8"

	"inkpad/internal/logger"
	"inkpad/internal/protocol"
)

// Severity mirrors the editor's marker severities.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Marker is an editor annotation. Lines and columns are 1-based; EndColumn
// is exclusive.
type Marker struct {
	Message     string
	Severity    Severity
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Editor is the buffer collaborator: it exposes the text and accepts the
// full marker set (nil clears).
type Editor interface {
	Value() string
	SetMarkers(markers []Marker)
}

// Kind classifies a notification.
type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notifier renders a dismissible alert. Calls are fire-and-forget.
type Notifier interface {
	Notify(kind Kind, message string, d time.Duration)
}

// Mapper applies diagnostic sets. Each Apply fully replaces the previous set.
type Mapper struct {
	editor   Editor
	notifier Notifier
	toastFor time.Duration
	log      *logger.LogEntry
	applied  int
}

func NewMapper(editor Editor, notifier Notifier, toastFor time.Duration) *Mapper {
	if toastFor <= 0 {
		toastFor = 1500 * time.Millisecond
	}
	return &Mapper{
		editor:   editor,
		notifier: notifier,
		toastFor: toastFor,
		log:      logger.Named("diagnostics"),
	}
}

// Apply clears every marker and then installs markers for diags. Diagnostics
// without a line become toasts.
func (m *Mapper) Apply(diags []protocol.Diagnostic) {
	m.editor.SetMarkers(nil)

	lines := strings.Split(m.editor.Value(), "\n")
	var markers []Marker
	for _, d := range diags {
		if d.Line <= 0 {
			if m.notifier != nil {
				m.notifier.Notify(KindError, d.Message, m.toastFor)
			}
			continue
		}
		markers = append(markers, lineMarker(d, lines))
	}
	if len(markers) > 0 {
		m.editor.SetMarkers(markers)
	}
	if m.applied > 0 || len(diags) > 0 {
		m.log.WithFields(logger.Fields{
			"markers": len(markers),
			"toasts":  len(diags) - len(markers),
		}).Debug("applied diagnostics")
	}
	m.applied = len(markers)
}

// Clear removes all markers.
func (m *Mapper) Clear() {
	m.Apply(nil)
}

// Active returns the number of markers installed by the last Apply.
func (m *Mapper) Active() int {
	return m.applied
}

func lineMarker(d protocol.Diagnostic, lines []string) Marker {
	end := 1
	if d.Line <= len(lines) {
		end = utf8.RuneCountInString(lines[d.Line-1]) + 1
	}
	return Marker{
		Message:     d.Message,
		Severity:    SeverityError,
		StartLine:   d.Line,
		StartColumn: 1,
		EndLine:     d.Line,
		EndColumn:   end,
	}
}
