package pager

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet interval after the last edit before a search is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Timer is the part of [time.Timer] the debouncer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DebounceOption configures a [Debouncer].
type DebounceOption func(*Debouncer)

// WithAfterFunc replaces the timer factory, letting tests drive a fake clock.
func WithAfterFunc(fn AfterFunc) DebounceOption {
	return func(d *Debouncer) { d.after = fn }
}

// Debouncer turns a stream of text edits into trailing-edge search emissions.
//
// An emission happens once no edit has arrived for the interval, and only when the trimmed text
// differs from the last emitted value. emit runs on the timer's goroutine.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	emit     func(string)
	after    AfterFunc

	timer   Timer
	gen     uint64
	pending string
	armed   bool
	last    string
	closed  bool
}

// NewDebouncer creates a [Debouncer]. The previously emitted value starts as "".
func NewDebouncer(interval time.Duration, emit func(string), opts ...DebounceOption) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	d := &Debouncer{interval: interval, emit: emit, after: stdAfterFunc}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Push records an edit and restarts the quiet interval.
func (d *Debouncer) Push(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = text
	d.armed = true
	d.timer = d.after(d.interval, func() { d.fire(gen) })
}

// Flush emits the pending edit now instead of waiting for the interval.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()

	d.fire(gen)
}

// Seed sets the last emitted value without emitting, e.g. after the list was reloaded by other means.
func (d *Debouncer) Seed(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = strings.TrimSpace(value)
}

// Pending reports whether an edit is waiting for the interval to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Close stops the timer. No emission happens after Close returns.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.armed = false
	value := strings.TrimSpace(d.pending)
	if value == d.last {
		d.mu.Unlock()
		return
	}
	d.last = value
	d.mu.Unlock()

	d.emit(value)
}
