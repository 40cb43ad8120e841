// Package debounce delays search input until the user stops typing.
package debounce

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	DefaultWindow    = 300 * time.Millisecond
	DefaultMinLength = 3
)

// Decision reports what Input did with a keystroke.
type Decision int

const (
	// DecisionClear means the trimmed input is empty. No timer is armed and
	// the caller should clear its results right away.
	DecisionClear Decision = iota
	// DecisionSuppress means the input is too short to search.
	DecisionSuppress
	// DecisionScheduled means a fire is pending after the quiescence window.
	DecisionScheduled
)

func (d Decision) String() string {
	switch d {
	case DecisionClear:
		return "clear"
	case DecisionSuppress:
		return "suppress"
	case DecisionScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// Debouncer holds at most one live timer. Every Input cancels the previous
// one, so a burst of keystrokes produces a single fire carrying the last
// value.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	minLen  int
	fire    func(query string)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer calling fire on its own goroutine. Non-positive
// window or minLen fall back to the defaults.
func New(window time.Duration, minLen int, fire func(query string)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	if fire == nil {
		fire = func(string) {}
	}
	return &Debouncer{window: window, minLen: minLen, fire: fire}
}

// Input records the current contents of the field.
func (d *Debouncer) Input(raw string) Decision {
	query := strings.TrimSpace(raw)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()

	if query == "" {
		return DecisionClear
	}
	if d.stopped || utf8.RuneCountInString(query) < d.minLen {
		return DecisionSuppress
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.deliver(gen, query) })
	return DecisionScheduled
}

// Submit handles an explicit Enter: any pending timer is dropped and the
// trimmed value is returned for an immediate search. Short queries are
// allowed here; only empty ones are refused.
func (d *Debouncer) Submit(raw string) (string, bool) {
	query := strings.TrimSpace(raw)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	return query, query != ""
}

// Pending reports whether a fire is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending timer. No fire happens after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// A timer that already fired but has not taken the lock yet sees a newer
	// generation and drops its value.
	d.gen++
}

func (d *Debouncer) deliver(gen uint64, query string) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fire(query)
}
