package domain

// EventKind names a step of the reasoning core.
type EventKind string

const (
	EventAxiomAccepted      EventKind = "axiom_accepted"
	EventTruthLearned       EventKind = "truth_learned"
	EventTruthSkipped       EventKind = "truth_skipped"
	EventTruthSimplified    EventKind = "truth_simplified"
	EventHypothesisVerified EventKind = "hypothesis_verified"
	EventHypothesisRejected EventKind = "hypothesis_rejected"
	EventCycleStarted       EventKind = "cycle_started"
	EventCycleSkipped       EventKind = "cycle_skipped"
	EventDiscovery          EventKind = "discovery"
)

// Cycle kinds carried in the Detail of EventCycleStarted.
const (
	CycleStochastic = "stochastic"
	CycleRoutine    = "routine"
)

// Event is structured narration produced by the reasoning core. Cycle is
// set on cycle_started, cycle_skipped and discovery events.
type Event struct {
	Kind     EventKind `json:"kind"`
	Cycle    int       `json:"cycle,omitempty"`
	Equation string    `json:"equation,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// EventSink receives events as they happen.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Emit(e Event) { f(e) }

// EventRecorder collects events in order.
type EventRecorder struct {
	Events []Event
}

func (r *EventRecorder) Emit(e Event) { r.Events = append(r.Events, e) }

// Reset drops recorded events and returns them.
func (r *EventRecorder) Reset() []Event {
	out := r.Events
	r.Events = nil
	return out
}

// Fanout emits to every non-nil sink in order.
func Fanout(sinks ...EventSink) EventSink {
	return EventSinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(e)
			}
		}
	})
}
