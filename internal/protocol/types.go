// Package protocol holds the JSON wire contract of the story-evaluation
// service.
package protocol

// CommitRequest submits the full script text for (re)parsing.
// UUID is empty on the first commit of a process.
type CommitRequest struct {
	Value string `json:"value"`
	UUID  string `json:"uuid"`
}

// ChooseRequest selects a zero-based option of the current section.
type ChooseRequest struct {
	UUID  string `json:"uuid"`
	Index int    `json:"index"`
}

// Diagnostic is a parse error. Line is 1-based; 0 means the error is not
// attached to a source line.
type Diagnostic struct {
	Line    int    `json:"ln"`
	Message string `json:"msg"`
}

// Section is one rendered beat of narrative content.
type Section struct {
	Text    string   `json:"text"`
	Options []string `json:"opts,omitempty"`
	End     bool     `json:"end,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// HasOptions reports whether the section offers choices.
func (s Section) HasOptions() bool {
	return len(s.Options) > 0
}

// Response is the decoded reply of either endpoint. Exactly one of
// Diagnostics (non-nil) or Section (non-nil) is set.
type Response struct {
	Diagnostics []Diagnostic `json:"errors,omitempty"`
	UUID        string       `json:"uuid,omitempty"`
	Section     *Section     `json:"section,omitempty"`
}

// IsDiagnostics reports whether the reply carries parse errors.
func (r Response) IsDiagnostics() bool {
	return r.Section == nil
}
