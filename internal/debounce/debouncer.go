package debounce

import (
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Scheduled
)

func (s State) String() string {
	if s == Scheduled {
		return "scheduled"
	}
	return "idle"
}

// Debouncer holds at most one scheduled task. Scheduling replaces the pending
// task and restarts the quiet period, so a burst of calls runs only the last one.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

func New() *Debouncer {
	return &Debouncer{}
}

// Schedule cancels any pending task and arms a one-shot timer that runs fn
// after delay. fn runs on the timer goroutine; Schedule never blocks on it.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn

	d.timer = time.AfterFunc(delay, func() {
		d.fire(gen)
	})
}

// fire runs the task armed under gen. A timer that was superseded after it
// already fired sees a newer generation and does nothing.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = nil
}

// Flush runs the pending task immediately on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) State() State {
	if d.Pending() {
		return Scheduled
	}
	return Idle
}
