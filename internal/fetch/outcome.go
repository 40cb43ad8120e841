package fetch

import (
	"errors"
	"fmt"
)

// Kind tags which branch of an Outcome is populated.
type Kind int

const (
	KindSuccess Kind = iota
	KindEmpty
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmpty:
		return "empty"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FailureKind classifies why a remote call did not produce data.
type FailureKind int

const (
	// NetworkFailure covers connection errors, timeouts and cancelled requests.
	NetworkFailure FailureKind = iota
	// ServiceError is a response with a non-2xx status.
	ServiceError
	// ParseFailure is a body that is not the JSON shape the caller expects.
	ParseFailure
)

func (k FailureKind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case ServiceError:
		return "service"
	case ParseFailure:
		return "parse"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// Failure is the only error type returned by Client.
type Failure struct {
	Kind     FailureKind
	Endpoint string
	Status   int
	Err      error
}

func (f *Failure) Error() string {
	switch {
	case f.Kind == ServiceError:
		return fmt.Sprintf("%s returned status %d", f.Endpoint, f.Status)
	case f.Err != nil:
		return fmt.Sprintf("%s %s failure: %v", f.Endpoint, f.Kind, f.Err)
	default:
		return fmt.Sprintf("%s %s failure", f.Endpoint, f.Kind)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err. Errors that did not come from a
// Client are reported as network failures so callers always get a kind.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: NetworkFailure, Err: err}
}

// Outcome is the tagged result of a remote call: exactly one of Success,
// Empty or Failure.
type Outcome[T any] struct {
	Kind    Kind
	Value   T
	Failure *Failure
}

// Success wraps a populated value.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: KindSuccess, Value: v}
}

// Empty reports a valid response that carried no items.
func Empty[T any]() Outcome[T] {
	return Outcome[T]{Kind: KindEmpty}
}

// Fail wraps err as a Failure outcome.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: KindFailure, Failure: AsFailure(err)}
}

func (o Outcome[T]) IsSuccess() bool { return o.Kind == KindSuccess }
func (o Outcome[T]) IsEmpty() bool   { return o.Kind == KindEmpty }
func (o Outcome[T]) IsFailure() bool { return o.Kind == KindFailure }

// ListOutcome folds a list call into an Outcome. A non-nil err wins, an empty
// list is Empty, and anything else is Success capped at limit (limit <= 0
// means no cap).
func ListOutcome[T any](items []T, limit int, err error) Outcome[[]T] {
	if err != nil {
		return Fail[[]T](err)
	}
	if len(items) == 0 {
		return Empty[[]T]()
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return Success(out)
}
