package state

import (
	"errors"
	"testing"

	"github.com/five82/tunedeck/internal/fetch"
)

func TestPanel_Lifecycle(t *testing.T) {
	var p Panel[[]string]

	if got := p.Snapshot().Phase; got != PhaseIdle {
		t.Fatalf("zero panel phase = %v, want idle", got)
	}

	seq := p.Begin("adele")
	snap := p.Snapshot()
	if snap.Phase != PhaseLoading || snap.Query != "adele" {
		t.Fatalf("after Begin = %+v, want loading adele", snap)
	}

	if !p.Resolve(seq, fetch.Success([]string{"Hello"})) {
		t.Fatal("Resolve current seq = false, want true")
	}
	snap = p.Snapshot()
	if snap.Phase != PhasePopulated || len(snap.Value) != 1 {
		t.Fatalf("after Resolve = %+v, want populated with 1 item", snap)
	}

	// A second resolve for the same seq is ignored.
	if p.Resolve(seq, fetch.Empty[[]string]()) {
		t.Fatal("duplicate Resolve = true, want false")
	}
}

func TestPanel_StaleResponseIsDiscarded(t *testing.T) {
	var p Panel[[]string]

	first := p.Begin("abc")
	second := p.Begin("abcd")

	if !p.Resolve(second, fetch.Success([]string{"abcd result"})) {
		t.Fatal("Resolve(second) = false, want true")
	}
	// The slower, earlier response arrives last.
	if p.Resolve(first, fetch.Success([]string{"abc result"})) {
		t.Fatal("Resolve(first) = true, want false for stale response")
	}

	snap := p.Snapshot()
	if snap.Query != "abcd" || snap.Value[0] != "abcd result" {
		t.Fatalf("snapshot = %+v, want abcd result", snap)
	}
}

func TestPanel_StaleResponseBeforeCurrentIsDiscarded(t *testing.T) {
	var p Panel[[]string]

	first := p.Begin("abc")
	second := p.Begin("abcd")

	if p.Resolve(first, fetch.Fail[[]string](errors.New("slow"))) {
		t.Fatal("Resolve(first) = true, want false")
	}
	if got := p.Snapshot().Phase; got != PhaseLoading {
		t.Fatalf("phase = %v, want loading until current response arrives", got)
	}
	if !p.Resolve(second, fetch.Empty[[]string]()) {
		t.Fatal("Resolve(second) = false, want true")
	}
	if got := p.Snapshot().Phase; got != PhaseEmpty {
		t.Fatalf("phase = %v, want empty", got)
	}
}

func TestPanel_ClearInvalidatesInFlight(t *testing.T) {
	var p Panel[[]string]

	seq := p.Begin("muse")
	p.Clear()

	if p.Resolve(seq, fetch.Success([]string{"Uprising"})) {
		t.Fatal("Resolve after Clear = true, want false")
	}
	snap := p.Snapshot()
	if snap.Phase != PhaseIdle || snap.Query != "" || snap.Value != nil {
		t.Fatalf("after Clear = %+v, want idle and empty", snap)
	}
}

func TestPanel_InvalidateDropsInFlight(t *testing.T) {
	var p Panel[[]string]

	if p.Invalidate() {
		t.Fatal("Invalidate on idle panel = true, want false")
	}

	seq := p.Begin("abc")
	if !p.Invalidate() {
		t.Fatal("Invalidate while loading = false, want true")
	}
	if p.Resolve(seq, fetch.Success([]string{"late"})) {
		t.Fatal("Resolve after Invalidate = true, want false")
	}
	if snap := p.Snapshot(); snap.Phase != PhaseLoading || snap.Query != "abc" {
		t.Fatalf("snapshot = %+v, want still loading abc", snap)
	}

	next := p.Begin("abcd")
	if !p.Resolve(next, fetch.Success([]string{"fresh"})) {
		t.Fatal("Resolve for the next query = false, want true")
	}
}

func TestPanel_FailureKeepsKind(t *testing.T) {
	var p Panel[[]string]

	seq := p.Begin("queen")
	failure := &fetch.Failure{Kind: fetch.ServiceError, Status: 503}
	p.Resolve(seq, fetch.Fail[[]string](failure))

	snap := p.Snapshot()
	if snap.Phase != PhaseError {
		t.Fatalf("phase = %v, want error", snap.Phase)
	}
	if snap.Failure == nil || snap.Failure.Kind != fetch.ServiceError {
		t.Fatalf("failure = %v, want service error", snap.Failure)
	}

	// The next query leaves the error state.
	p.Begin("queen live")
	if snap := p.Snapshot(); snap.Phase != PhaseLoading || snap.Failure != nil {
		t.Fatalf("after Begin = %+v, want loading without failure", snap)
	}
}
