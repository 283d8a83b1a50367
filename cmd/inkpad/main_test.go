package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkpad/internal/protocol"
	"inkpad/internal/tui"
)

// setupCommandEnv isolates HOME, the working directory (log files) and the
// INKPAD_* environment, pointing the service url at url.
func setupCommandEnv(t *testing.T, url string) {
	t.Helper()
	for _, key := range []string{
		"INKPAD_COMMIT_PATH", "INKPAD_CHOOSE_PATH", "INKPAD_DEBOUNCE_MS",
		"INKPAD_REQUEST_TIMEOUT_SECONDS", "INKPAD_TOAST_MS", "INKPAD_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("INKPAD_URL", url)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeScript(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.ink")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// newStoryServer serves a two-beat story; scripts containing "-> nowhere"
// fail to parse.
func newStoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	reply := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/editor/onchange", func(w http.ResponseWriter, r *http.Request) {
		var req protocol.CommitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.Contains(req.Value, "-> nowhere") {
			reply(w, http.StatusBadRequest, map[string]any{"errors": []map[string]any{
				{"ln": 2, "msg": "unknown divert target"},
				{"ln": 0, "msg": "story has no end"},
			}})
			return
		}
		reply(w, http.StatusOK, map[string]any{
			"uuid":    "s-1",
			"section": map[string]any{"text": "You wake up.", "opts": []string{"Get up", "Sleep"}, "tags": []string{"morning"}},
		})
	})
	mux.HandleFunc("/editor/choose", func(w http.ResponseWriter, r *http.Request) {
		var req protocol.ChooseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UUID != "s-1" {
			reply(w, http.StatusBadRequest, map[string]any{"error": "unknown session"})
			return
		}
		if req.Index == 0 {
			reply(w, http.StatusOK, map[string]any{"uuid": "s-1", "section": map[string]any{"text": "You get up.", "end": true}})
			return
		}
		reply(w, http.StatusOK, map[string]any{"uuid": "s-1", "section": map[string]any{"text": "You sleep.", "opts": []string{"Wake"}}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReadScript(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tale.ink")
	if err := os.WriteFile(existing, []byte("Once upon a time.\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cases := []struct {
		name string
		path string
		want string
	}{
		{name: "no path uses the starter script", path: "", want: tui.StarterScript},
		{name: "missing file starts empty", path: filepath.Join(dir, "new.ink"), want: ""},
		{name: "existing file", path: existing, want: "Once upon a time.\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := readScript(tc.path)
			if err != nil {
				t.Fatalf("readScript(%q) error: %v", tc.path, err)
			}
			if got != tc.want {
				t.Fatalf("readScript(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}

	if _, err := readScript(dir); err == nil {
		t.Fatal("reading a directory should fail")
	}
}
