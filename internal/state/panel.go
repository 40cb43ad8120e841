package state

import (
	"fmt"
	"sync"

	"github.com/five82/tunedeck/internal/fetch"
)

// Phase is where a panel is in its request lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePopulated
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePopulated:
		return "populated"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PanelSnapshot is a point-in-time view of a Panel.
type PanelSnapshot[T any] struct {
	Phase   Phase
	Query   string
	Value   T
	Failure *fetch.Failure
	Seq     uint64
}

// Panel tracks the results area of one input field. Each committed query
// gets a sequence number from Begin, and only the response carrying the
// latest number is applied.
type Panel[T any] struct {
	mu      sync.RWMutex
	seq     uint64
	phase   Phase
	query   string
	value   T
	failure *fetch.Failure
}

// Begin moves the panel to Loading for query and returns the sequence number
// the response must present to Resolve.
func (p *Panel[T]) Begin(query string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	p.phase = PhaseLoading
	p.query = query
	var zero T
	p.value = zero
	p.failure = nil
	return p.seq
}

// Resolve applies out if seq is still current. It returns false, leaving the
// panel untouched, for a superseded or already-applied response.
func (p *Panel[T]) Resolve(seq uint64, out fetch.Outcome[T]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq || p.phase != PhaseLoading {
		return false
	}
	switch out.Kind {
	case fetch.KindSuccess:
		p.phase = PhasePopulated
		p.value = out.Value
	case fetch.KindEmpty:
		p.phase = PhaseEmpty
	default:
		p.phase = PhaseError
		p.failure = out.Failure
	}
	return true
}

// Clear returns the panel to Idle. Any response still in flight becomes
// stale.
func (p *Panel[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	p.phase = PhaseIdle
	p.query = ""
	var zero T
	p.value = zero
	p.failure = nil
}

// Invalidate makes any response still in flight stale without leaving
// Loading. It reports whether a request was pending.
func (p *Panel[T]) Invalidate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != PhaseLoading {
		return false
	}
	p.seq++
	return true
}

// Snapshot returns the current state. Value is shared with the panel and
// must be treated as read-only.
func (p *Panel[T]) Snapshot() PanelSnapshot[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PanelSnapshot[T]{
		Phase:   p.phase,
		Query:   p.query,
		Value:   p.value,
		Failure: p.failure,
		Seq:     p.seq,
	}
}
