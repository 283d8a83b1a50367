package tui

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestFmtElapsedCompact(t *testing.T) {
	cases := []struct {
		seconds  uint64
		expected string
	}{
		{seconds: 0, expected: "0s"},
		{seconds: 59, expected: "59s"},
		{seconds: 60, expected: "1m 00s"},
		{seconds: 3*60 + 5, expected: "3m 05s"},
		{seconds: 3600 + 60 + 1, expected: "1h 01m 01s"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := fmtElapsedCompact(tc.seconds); got != tc.expected {
				t.Fatalf("fmtElapsedCompact(%d) = %q, want %q", tc.seconds, got, tc.expected)
			}
		})
	}
}

func TestSyncStatusTimer(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	status := NewSyncStatus(func() time.Time { return now })

	status.Begin()
	now = base.Add(2 * time.Second)
	status.Begin() // a second request in flight keeps the original start
	now = base.Add(5 * time.Second)
	if got := status.Elapsed(); got != 5*time.Second {
		t.Fatalf("elapsed while busy = %v, want 5s", got)
	}

	status.Settle(SyncProblems, "2 problems")
	now = base.Add(20 * time.Second)
	if got := status.Elapsed(); got != 5*time.Second {
		t.Fatalf("elapsed after settle = %v, want 5s", got)
	}
	if got := status.Line("", 80).Plain(); got != "! Problems (5s • 2 problems)" {
		t.Fatalf("status line = %q", got)
	}
}

func TestSyncStatusHaltedIsSticky(t *testing.T) {
	status := NewSyncStatus(nil)
	status.Settle(SyncHalted, "session conflict")
	status.Begin()
	status.Settle(SyncIdle, "")
	if status.State() != SyncHalted {
		t.Fatalf("state = %s, want halted", status.State())
	}
}

func TestSyncStatusLineClampsToWidth(t *testing.T) {
	status := NewSyncStatus(nil)
	status.Begin()
	line := status.Line("⠋", 10)
	if width := runewidth.StringWidth(line.Plain()); width > 10 {
		t.Fatalf("rendered width %d exceeds 10", width)
	}
}
