// Package store persists finished or abandoned playthroughs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"inkpad/internal/narrative"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// ErrInvalidID 表示记录 id 不是合法的 uuid。
var ErrInvalidID = errors.New("invalid playthrough id")

type Record struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id,omitempty"`
	ScriptPath string            `json:"script_path,omitempty"`
	Script     string            `json:"script"`
	Entries    []narrative.Entry `json:"entries"`
	Ended      bool              `json:"ended"`
	Updated    time.Time         `json:"updated"`
}

// Title is the first line of the first section, used in listings.
func (r Record) Title() string {
	for _, e := range r.Entries {
		if e.Kind != narrative.EntryText {
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(e.Text), "\n")
		if line != "" {
			return line
		}
	}
	if r.ScriptPath != "" {
		return filepath.Base(r.ScriptPath)
	}
	return "(empty)"
}

func dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inkpad", "playthroughs"), nil
}

// recordPath maps id to its file. Only canonical uuids are accepted so an id
// can never name a file outside the playthroughs directory.
func recordPath(d, id string) (string, string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	canonical := parsed.String()
	return filepath.Join(d, canonical+".json"), canonical, nil
}

// Save writes rec, assigning an id when it has none.
func Save(rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	d, err := dir()
	if err != nil {
		return "", err
	}
	path, id, err := recordPath(d, rec.ID)
	if err != nil {
		return "", err
	}
	rec.ID = id
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	rec.Updated = time.Now()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func Load(id string) (Record, error) {
	var rec Record
	d, err := dir()
	if err != nil {
		return rec, err
	}
	path, id, err := recordPath(d, id)
	if err != nil {
		return rec, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode playthrough %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records, most recently updated first. Unreadable files
// are skipped.
func List() ([]Record, error) {
	d, err := dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []Record
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		rec, err := Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Updated.After(records[j].Updated)
	})
	return records, nil
}

// Last returns the most recently updated record.
func Last() (Record, error) {
	records, err := List()
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, errors.New("no playthroughs found")
	}
	return records[0], nil
}

type searchSource []Record

func (s searchSource) String(i int) string {
	return s[i].Title() + " " + s[i].ScriptPath
}

func (s searchSource) Len() int { return len(s) }

// Search fuzzy-matches query against titles and script paths, best match
// first. An empty query returns List().
func Search(query string) ([]Record, error) {
	records, err := List()
	if err != nil || strings.TrimSpace(query) == "" {
		return records, err
	}
	matches := fuzzy.FindFrom(query, searchSource(records))
	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out, nil
}
