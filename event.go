package slirc

// An EventType identifies one kind of event. Values obtained from the same
// NewEventType call compare equal; values from distinct calls never do, so
// every package can declare its own identities without coordination.
//
// The zero EventType is invalid and is rejected by NewEvent and Attach.
type EventType struct {
	def *eventTypeDef
}

type eventTypeDef struct {
	name     string
	requires []TagKey
}

// NewEventType mints a new event identity. name is used for diagnostics
// only; two identities with the same name are still distinct.
//
// requires lists the tag types that must be attached to an event before its
// handlers for this identity run. The context checks the requirement at
// dispatch time and panics on a violation: an event must not be promoted to
// an identity without carrying its declared tags.
func NewEventType(name string, requires ...TagKey) EventType {
	return EventType{def: &eventTypeDef{name: name, requires: requires}}
}

func (t EventType) String() string {
	if t.def == nil {
		return "<invalid event type>"
	}
	return t.def.name
}

func (t EventType) valid() bool { return t.def != nil }

// An Event is any action happening in an IRC context.
//
// Events carry an ordered history of identities and a bag of tagged data.
// An event can gain identities during its life: a raw network line may
// become a parsed line and then a numeric reply while being dispatched.
type Event struct {
	history []EventType
	current int

	// Data holds the tags attached to this event. Only the dispatching
	// goroutine may touch it while the event is in flight.
	Data TagContainer

	// Handle dispatches this event through its owning context. It is bound
	// when the event is queued and drives the event through all remaining
	// identities in its history.
	Handle func()
}

// NewEvent creates an event with the given initial identity.
func NewEvent(initial EventType) *Event {
	if !initial.valid() {
		panic("slirc: NewEvent with invalid event type")
	}
	return &Event{history: []EventType{initial}}
}

// QueueAs appends another identity to the event. Handlers for it run after
// all handlers for the identities already in the history.
//
// If multiple is false and the identity is already queued (WillBeA reports
// true), nothing is appended and QueueAs reports false. Identities that
// were already handled do not count: an event can revisit an identity it
// has passed.
func (e *Event) QueueAs(t EventType, multiple bool) bool {
	if !t.valid() {
		panic("slirc: QueueAs with invalid event type")
	}
	if !multiple && e.WillBeA(t) {
		return false
	}
	e.history = append(e.history, t)
	return true
}

// WasA reports whether the event has already been handled as t.
func (e *Event) WasA(t EventType) bool {
	for _, h := range e.history[:e.current] {
		if h == t {
			return true
		}
	}
	return false
}

// IsA reports whether the event is currently being handled as t.
func (e *Event) IsA(t EventType) bool {
	return e.current < len(e.history) && e.history[e.current] == t
}

// WillBeA reports whether the event is queued to be handled as t.
func (e *Event) WillBeA(t EventType) bool {
	if e.current >= len(e.history) {
		return false
	}
	for _, h := range e.history[e.current+1:] {
		if h == t {
			return true
		}
	}
	return false
}
