// Package narrative keeps the append-only transcript of a playthrough.
package narrative

import (
	"errors"

	"inkpad/internal/logger"
	"inkpad/internal/protocol"
)

// State of the renderer.
type State int

const (
	StateEmpty State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "empty"
	}
}

// Separator labels.
const (
	LabelCurrent    = "Options"
	LabelSuperseded = "-"
)

// ErrEnded is returned when a section arrives after the story ended.
var ErrEnded = errors.New("story already ended")

// EntryKind distinguishes transcript entries.
type EntryKind int

const (
	EntryText EntryKind = iota
	EntrySeparator
)

// Entry is one transcript element.
type Entry struct {
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
	Tags []string  `json:"tags,omitempty"`
}

// Option is a clickable choice of the current section.
type Option struct {
	Index int
	Label string
}

// Outcome describes what Apply did.
type Outcome struct {
	State State
	// Anomalous is set for a non-terminal section without options after
	// the first one: the story cannot progress from it.
	Anomalous bool
}

// Renderer is a state machine over Empty → Active → Ended.
type Renderer struct {
	state   State
	entries []Entry
	options []Option
	current int // index of the live "Options" separator, -1 if none
	log     *logger.LogEntry
}

func NewRenderer() *Renderer {
	return &Renderer{current: -1, log: logger.Named("narrative")}
}

// Apply appends sec to the transcript.
func (r *Renderer) Apply(sec protocol.Section) (Outcome, error) {
	if r.state == StateEnded {
		return Outcome{State: r.state}, ErrEnded
	}
	first := r.state == StateEmpty

	if r.current >= 0 {
		r.entries[r.current].Text = LabelSuperseded
		r.current = -1
	}
	r.entries = append(r.entries, Entry{Kind: EntryText, Text: sec.Text, Tags: append([]string(nil), sec.Tags...)})
	r.options = nil

	out := Outcome{}
	switch {
	case sec.End:
		r.state = StateEnded
	case sec.HasOptions():
		r.entries = append(r.entries, Entry{Kind: EntrySeparator, Text: LabelCurrent})
		r.current = len(r.entries) - 1
		r.options = make([]Option, len(sec.Options))
		for i, label := range sec.Options {
			r.options[i] = Option{Index: i, Label: label}
		}
		r.state = StateActive
	default:
		r.state = StateActive
		if !first {
			out.Anomalous = true
			r.log.WithField("entries", len(r.entries)).Warn("non-terminal section without options; story cannot progress")
		}
	}
	out.State = r.state
	return out, nil
}

// Reset starts a new playthrough.
func (r *Renderer) Reset() {
	r.state = StateEmpty
	r.entries = nil
	r.options = nil
	r.current = -1
}

func (r *Renderer) State() State {
	return r.state
}

// Entries returns a copy of the transcript.
func (r *Renderer) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Texts returns only the section texts, in order.
func (r *Renderer) Texts() []string {
	var out []string
	for _, e := range r.entries {
		if e.Kind == EntryText {
			out = append(out, e.Text)
		}
	}
	return out
}

// Options returns the current choices; empty unless Active with options.
func (r *Renderer) Options() []Option {
	return append([]Option(nil), r.options...)
}

// Ended reports whether the end indicator should be shown.
func (r *Renderer) Ended() bool {
	return r.state == StateEnded
}
