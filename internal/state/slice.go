// Package state is the per-visitor application state container.
//
// Each slice of state (search results, selected flight, destinations,
// airports) is a Slice[T] driven by a pure reducer over three actions:
// requested, succeeded and failed. A Store groups the slices for one visitor
// session and applies actions one at a time.
package state

// Status is the lifecycle of the request that last touched a slice.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Kind is the action type.
type Kind int

const (
	KindRequested Kind = iota + 1
	KindSucceeded
	KindFailed
)

// Action is one event applied to a Slice. Seq identifies the request it
// belongs to; sequences are issued by the Store and only ever increase.
type Action[T any] struct {
	Kind    Kind
	Seq     uint64
	Payload T
	Reason  string
}

// Requested starts request seq.
func Requested[T any](seq uint64) Action[T] {
	return Action[T]{Kind: KindRequested, Seq: seq}
}

// Succeeded completes request seq with payload.
func Succeeded[T any](seq uint64, payload T) Action[T] {
	return Action[T]{Kind: KindSucceeded, Seq: seq, Payload: payload}
}

// Failed completes request seq with a user-facing reason.
func Failed[T any](seq uint64, reason string) Action[T] {
	return Action[T]{Kind: KindFailed, Seq: seq, Reason: reason}
}

// Slice holds the data of one state slice and the status of its latest request.
// Latest is the sequence of the most recent request; completions for any
// older sequence are stale and ignored.
type Slice[T any] struct {
	Status Status
	Data   T
	Error  string
	Latest uint64
}

// Loading reports whether a request is in flight.
func (s Slice[T]) Loading() bool { return s.Status == StatusPending }

// Reduce applies a to s and returns the new slice. It never mutates s.
//
// Requested marks the slice pending and clears the error; previous data is
// kept so a view can keep rendering it. Succeeded replaces data. Failed keeps
// data and records the reason. Completions older than Latest are dropped, so
// a slow earlier request cannot overwrite a newer one.
func Reduce[T any](s Slice[T], a Action[T]) Slice[T] {
	switch a.Kind {
	case KindRequested:
		if a.Seq < s.Latest {
			return s
		}
		s.Latest = a.Seq
		s.Status = StatusPending
		s.Error = ""
	case KindSucceeded:
		if a.Seq != s.Latest {
			return s
		}
		s.Status = StatusFulfilled
		s.Data = a.Payload
		s.Error = ""
	case KindFailed:
		if a.Seq != s.Latest {
			return s
		}
		s.Status = StatusRejected
		s.Error = a.Reason
	}
	return s
}
