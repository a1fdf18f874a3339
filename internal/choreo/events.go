package choreo

import (
	"time"

	"github.com/Faultbox/pourglass/internal/anim"
)

// EventKind classifies choreography events.
type EventKind uint8

const (
	// EventFallStarted fires when an inclusion leaves its hidden position.
	EventFallStarted EventKind = iota
	// EventLanded fires when an inclusion reaches rest.
	EventLanded
	// EventComplete fires when every inclusion of a vessel has landed.
	EventComplete
	// EventSlideOut fires when an outgoing vessel starts leaving.
	EventSlideOut
	// EventDisposed fires when a vessel and its inclusions are gone.
	EventDisposed
	// EventArrived fires when an incoming vessel lands.
	EventArrived
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventFallStarted:
		return "fall-started"
	case EventLanded:
		return "landed"
	case EventComplete:
		return "complete"
	case EventSlideOut:
		return "slide-out"
	case EventDisposed:
		return "disposed"
	case EventArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Event is published to subscribers as choreography progresses.
type Event struct {
	Kind  EventKind
	Owner anim.Owner
	ID    ID // zero for vessel-level events
	Name  string
	Item  Kind
	At    time.Duration // scheduler clock
}
