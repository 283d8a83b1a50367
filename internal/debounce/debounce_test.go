package debounce

import (
	"testing"
	"time"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// fakeClock runs timer callbacks when advanced; Stop only marks timers, so a
// callback racing Stop can be simulated by firing a stopped timer manually.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			t.f()
		}
	}
}

func (c *fakeClock) wallNow() time.Time {
	return time.Unix(0, 0).Add(c.now)
}

func newFake(delay time.Duration) (*Debouncer, *fakeClock) {
	clock := &fakeClock{}
	d := New(Options{Delay: delay, AfterFunc: clock.afterFunc, Now: clock.wallNow})
	return d, clock
}

func drain(d *Debouncer) []Commit {
	var out []Commit
	for {
		select {
		case c, ok := <-d.C():
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

func TestBurstEmitsOnceAfterLastEvent(t *testing.T) {
	const delay = 600 * time.Millisecond
	d, clock := newFake(delay)

	texts := []string{"H", "He", "Hel", "Hell", "Hello"}
	for i, text := range texts {
		d.Notify(text)
		if i < len(texts)-1 {
			clock.advance(delay - time.Millisecond)
		}
	}
	lastEvent := clock.now
	if got := drain(d); len(got) != 0 {
		t.Fatalf("commits during burst = %v, want none", got)
	}

	clock.advance(delay - time.Millisecond)
	if got := drain(d); len(got) != 0 {
		t.Fatalf("commit fired early: %v", got)
	}
	clock.advance(time.Millisecond)

	got := drain(d)
	if len(got) != 1 {
		t.Fatalf("commits = %d, want exactly 1", len(got))
	}
	if got[0].Text != "Hello" {
		t.Fatalf("commit text = %q, want latest buffer", got[0].Text)
	}
	if want := time.Unix(0, 0).Add(lastEvent + delay); !got[0].At.Equal(want) {
		t.Fatalf("commit at %v, want %v", got[0].At, want)
	}
	if d.Pending() {
		t.Fatal("no timer should be pending after fire")
	}
}

func TestSeparatedEventsEmitSeparately(t *testing.T) {
	d, clock := newFake(100 * time.Millisecond)

	d.Notify("a")
	clock.advance(100 * time.Millisecond)
	first := drain(d)
	d.Notify("ab")
	clock.advance(100 * time.Millisecond)
	second := drain(d)

	if len(first) != 1 || first[0].Text != "a" {
		t.Fatalf("first = %v", first)
	}
	if len(second) != 1 || second[0].Text != "ab" {
		t.Fatalf("second = %v", second)
	}
}

func TestStaleTimerCallbackIsIgnored(t *testing.T) {
	d, clock := newFake(100 * time.Millisecond)

	d.Notify("old")
	stale := clock.timers[0]
	d.Notify("new")
	// The old timer's goroutine was already running when Stop was called.
	stale.f()
	if got := drain(d); len(got) != 0 {
		t.Fatalf("stale timer emitted %v", got)
	}
	clock.advance(100 * time.Millisecond)
	if got := drain(d); len(got) != 1 || got[0].Text != "new" {
		t.Fatalf("got %v, want single commit of new", got)
	}
}

func TestUnreadCommitIsReplacedByNewest(t *testing.T) {
	d, clock := newFake(10 * time.Millisecond)

	d.Notify("one")
	clock.advance(10 * time.Millisecond)
	d.Notify("two")
	clock.advance(10 * time.Millisecond)

	got := drain(d)
	if len(got) != 1 || got[0].Text != "two" {
		t.Fatalf("got %v, want only the newest commit", got)
	}
}

func TestStopCancelsAndCloses(t *testing.T) {
	d, clock := newFake(10 * time.Millisecond)
	d.Notify("x")
	d.Stop()
	clock.advance(time.Second)

	if _, ok := <-d.C(); ok {
		t.Fatal("channel should be closed without a commit")
	}
	d.Notify("ignored")
	d.Stop()
}

func TestRealTimers(t *testing.T) {
	d := New(Options{Delay: 20 * time.Millisecond})
	defer d.Stop()
	for i := 0; i < 5; i++ {
		d.Notify("draft")
		time.Sleep(2 * time.Millisecond)
	}
	select {
	case c := <-d.C():
		if c.Text != "draft" {
			t.Fatalf("commit text = %q", c.Text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for commit")
	}
	select {
	case c := <-d.C():
		t.Fatalf("unexpected second commit %v", c)
	case <-time.After(60 * time.Millisecond):
	}
}
