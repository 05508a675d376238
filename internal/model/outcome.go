package model

// OutcomeStatus classifies how a collector produced its data.
type OutcomeStatus string

const (
	// StatusOK means real upstream data was obtained.
	StatusOK OutcomeStatus = "ok"
	// StatusDegraded means a documented fallback value was substituted.
	StatusDegraded OutcomeStatus = "degraded"
	// StatusFailed means no usable data at all.
	StatusFailed OutcomeStatus = "failed"
)

// Outcome wraps a collector result so callers can tell real data from
// fallbacks without the distinction getting lost in a log line.
type Outcome[T any] struct {
	Status OutcomeStatus `json:"status"`
	Value  T             `json:"value"`
	Reason string        `json:"reason,omitempty"` // set for degraded and failed
}

// OK builds a successful outcome.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusOK, Value: v}
}

// Degraded builds an outcome carrying fallback data.
func Degraded[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Status: StatusDegraded, Value: v, Reason: reason}
}

// Failed builds an outcome with no usable data.
func Failed[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusFailed, Reason: reason}
}

// Usable reports whether the outcome carries data a downstream stage can use.
func (o Outcome[T]) Usable() bool {
	return o.Status != StatusFailed
}
