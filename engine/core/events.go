package core

// Event is anything the run loop can dispatch. The set is closed: window
// specific events live in the platform package, everything injected from other
// goroutines travels as a UserEvent.
type Event interface {
	isEvent()
}

// EventBase is embedded by event types declared outside this package.
type EventBase struct{}

func (EventBase) isEvent() {}

// CloseRequested asks the loop to exit after the current event.
type CloseRequested struct{ EventBase }

// MainEventsCleared closes the input part of a tick; update runs on it.
type MainEventsCleared struct{ EventBase }

// RedrawRequested triggers the render callback.
type RedrawRequested struct{ EventBase }

// UserEvent carries a payload injected through an EventSender.
type UserEvent struct {
	EventBase
	Payload any
}

// EventSender injects events into the run loop from any goroutine. Send never
// blocks the caller on the consumer.
type EventSender interface {
	Send(e Event)
}
