package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_TypePrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with type",
			data: logrus.Fields{
				"component":  "wire",
				"type":       "commit",
				"caller":     "x.go:1",
				"seq":        3,
				"request_id": "r1",
			},
			message: "<- response",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [wire] [type=commit] <- response request_id=r1 seq=3\n",
		},
		{
			name: "without type",
			data: logrus.Fields{
				"component": "syncer",
				"caller":    "x.go:1",
				"foo":       "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [syncer] hello foo=bar\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if _, ok := tc.data["type"]; ok && strings.Count(got, "type=commit") != 1 {
				t.Fatalf("expected type to appear only once in output, got: %q", got)
			}
		})
	}
}

func TestSetupComponentFile_WritesComponentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wire.log")
	entry, closer, resolved, err := SetupComponentFile("wire", path)
	if err != nil {
		t.Fatalf("SetupComponentFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	entry.Info("-> request")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[wire] -> request") {
		t.Fatalf("log file = %q, want component-tagged line", string(data))
	}
}
