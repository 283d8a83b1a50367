// Package debounce coalesces bursts of buffer changes into single commits.
package debounce

import (
	"sync"
	"time"
)

// Commit is emitted once per quiet period with the latest buffer text.
type Commit struct {
	Text string
	At   time.Time
}

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via Options.
type AfterFunc func(d time.Duration, f func()) Timer

// Options configures a Debouncer.
type Options struct {
	Delay     time.Duration
	AfterFunc AfterFunc
	Now       func() time.Time
}

// Debouncer is a trailing-edge debouncer: every Notify cancels the pending
// timer and arms a new one; only a timer that fires uncancelled emits.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	afterFunc AfterFunc
	now       func() time.Time
	out       chan Commit
	pending   Timer
	gen       uint64
	text      string
	closed    bool
}

func New(opts Options) *Debouncer {
	after := opts.AfterFunc
	if after == nil {
		after = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Debouncer{
		delay:     opts.Delay,
		afterFunc: after,
		now:       now,
		out:       make(chan Commit, 1),
	}
}

// C delivers commits. It is closed by Stop.
func (d *Debouncer) C() <-chan Commit {
	return d.out
}

// Notify records text as the current buffer state and restarts the delay.
func (d *Debouncer) Notify(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.text = text
	d.pending = d.afterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a timer is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending timer and closes C.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.closed = true
	close(d.out)
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// Stop may race with a timer that already started running.
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	commit := Commit{Text: d.text, At: d.now()}
	// A reader that has not drained the previous commit only ever needs the
	// newest one.
	select {
	case <-d.out:
	default:
	}
	d.out <- commit
	d.mu.Unlock()
}
