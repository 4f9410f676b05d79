package buffer

import "fmt"

// InvalidArgumentError reports malformed input to a public entry point:
// non-line input to the single-sided API, or malformed BufferParameters
// (§7 error taxonomy).
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("buffer: invalid argument: %s", e.Message)
}

// TopologyError reports that noding produced a graph depth propagation
// could not resolve, with the offending coordinate when one is known
// (§7, §9 Open Questions — GEOS raises an assertion here; this
// implementation reports it as a normal error instead).
type TopologyError struct {
	Message  string
	Location Point
	HasLoc   bool
}

func (e *TopologyError) Error() string {
	if e.HasLoc {
		return fmt.Sprintf("buffer: topology error at (%g, %g): %s", e.Location.X, e.Location.Y, e.Message)
	}
	return fmt.Sprintf("buffer: topology error: %s", e.Message)
}

func newTopologyError(msg string) *TopologyError {
	return &TopologyError{Message: msg}
}

func newTopologyErrorAt(msg string, at Point) *TopologyError {
	return &TopologyError{Message: msg, Location: at, HasLoc: true}
}

// CancelledError is returned when the cooperative Interrupt predicate
// fires between pipeline stages (§5 Cancellation).
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "buffer: cancelled"
}

// InternalError wraps an invariant violation. BufferOrchestrator.Buffer
// recovers any panic raised inside the pipeline at the public boundary and
// converts it here rather than letting it escape (§7 Internal).
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("buffer: internal error: %s", e.Message)
}

// Interrupt is a cooperative cancellation predicate polled between major
// pipeline stages (§5 Cancellation). A nil Interrupt never cancels.
type Interrupt func() bool

func (i Interrupt) check() error {
	if i != nil && i() {
		return &CancelledError{}
	}
	return nil
}
