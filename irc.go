// Package slirc is an embeddable IRC client core. It mediates between a
// transport and application code by turning raw lines into typed events and
// dispatching them to registered handlers.
//
// The heart of the package is the IRC context: a thread-safe event queue, a
// handler registry keyed by event identity, and a registry of pluggable
// modules (see the conn and proto packages for the bundled ones). A typical
// deployment has transport goroutines producing events with QueueEvent and
// exactly one worker draining them:
//
//	for {
//		irc.EventAvailable().Wait(-1)
//		for ev := irc.FetchEvent(); ev != nil; ev = irc.FetchEvent() {
//			ev.Handle()
//		}
//	}
//
// or equivalently irc.Run(ctx). The queue API is safe from any goroutine;
// the handler and module APIs are not and must be serialized with dispatch
// by the caller.
package slirc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"git.sr.ht/~slashlife/slirc/waitable"
)

// A Handler is called with every event dispatched for an identity it is
// attached to.
type Handler func(*Event)

// A Phase orders handlers attached to the same identity. Within one phase
// handlers run in registration order.
type Phase int

const (
	// PhasePrefilter handlers run before the main handlers.
	PhasePrefilter Phase = -0x10
	// PhaseHandler is where main event handlers run.
	PhaseHandler Phase = 0
	// PhasePostfilter handlers run after the main handlers.
	PhasePostfilter Phase = 0x10
)

// IRC is the main context for an IRC connection. Create one with New.
type IRC struct {
	mu             sync.Mutex // guards queue
	queue          []*Event
	eventAvailable *waitable.Waitable

	handlers map[EventType][]handlerEntry
	nextID   int

	modules map[APIType]Module
}

type handlerEntry struct {
	phase Phase
	id    int
	fn    Handler
}

// New creates an empty IRC context.
func New() *IRC {
	irc := &IRC{
		eventAvailable: waitable.New(),
		handlers:       make(map[EventType][]handlerEntry),
		modules:        make(map[APIType]Module),
	}
	// The queue starts out empty.
	irc.eventAvailable.Close()
	return irc
}

// EventAvailable returns a waitable that is open exactly as long as there
// are events in the queue. Workers wait on it before fetching. Callers must
// not open or close it themselves.
func (irc *IRC) EventAvailable() *waitable.Waitable {
	return irc.eventAvailable
}

// QueueEvent appends ev to the event queue and binds its Handle to this
// context. Queueing a nil event is a no-op.
//
// QueueEvent is safe from any goroutine.
func (irc *IRC) QueueEvent(ev *Event) {
	if ev == nil {
		return
	}
	ev.Handle = func() { irc.Dispatch(ev) }
	irc.mu.Lock()
	irc.queue = append(irc.queue, ev)
	irc.eventAvailable.Open()
	irc.mu.Unlock()
}

// QueueEventFront is QueueEvent, but the event is fetched before all
// currently queued events.
func (irc *IRC) QueueEventFront(ev *Event) {
	if ev == nil {
		return
	}
	ev.Handle = func() { irc.Dispatch(ev) }
	irc.mu.Lock()
	irc.queue = append([]*Event{ev}, irc.queue...)
	irc.eventAvailable.Open()
	irc.mu.Unlock()
}

// FetchEvent pops the next event from the queue, or returns nil if none is
// available. It does not block; wait on EventAvailable first.
//
// FetchEvent is safe from any goroutine.
func (irc *IRC) FetchEvent() *Event {
	irc.mu.Lock()
	defer irc.mu.Unlock()
	var next *Event
	if len(irc.queue) > 0 {
		next = irc.queue[0]
		irc.queue = irc.queue[1:]
	}
	// no else!
	if len(irc.queue) == 0 {
		irc.eventAvailable.Close()
	}
	return next
}

// Attach registers fn for events with identity t. It returns a handle whose
// Disconnect removes the registration again.
//
// Attach panics with ErrInvalidHandler when t is the zero EventType or fn
// is nil. Like all handler registry operations it must be serialized with
// dispatch by the caller.
func (irc *IRC) Attach(t EventType, fn Handler, phase Phase) HandlerHandle {
	if !t.valid() || fn == nil {
		panic(ErrInvalidHandler)
	}
	irc.nextID++
	entry := handlerEntry{phase: phase, id: irc.nextID, fn: fn}
	entries := irc.handlers[t]
	// Keep entries sorted by phase; equal phases stay in registration
	// order because ids only grow.
	pos := len(entries)
	for pos > 0 && entries[pos-1].phase > phase {
		pos--
	}
	entries = append(entries, handlerEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = entry
	irc.handlers[t] = entries
	return HandlerHandle{irc: irc, t: t, id: entry.id}
}

// A HandlerHandle refers to one handler registration.
type HandlerHandle struct {
	irc *IRC
	t   EventType
	id  int
}

// Disconnect removes the registration. Disconnecting twice, or a zero
// handle, is a no-op.
func (h HandlerHandle) Disconnect() {
	if h.irc == nil {
		return
	}
	entries := h.irc.handlers[h.t]
	for i, entry := range entries {
		if entry.id == h.id {
			h.irc.handlers[h.t] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch drives ev through all identities remaining in its history,
// calling the attached handlers for each in phase then registration order.
// Handlers may append further identities to ev; they are dispatched by the
// same call.
//
// The cursor advances after all handlers for an identity have returned: if
// a handler panics, the failing identity has not been consumed, previously
// dispatched identities stay in the past, and the panic propagates to the
// caller, which is left holding the event.
func (irc *IRC) Dispatch(ev *Event) {
	for ev.current < len(ev.history) {
		t := ev.history[ev.current]
		if entries := irc.handlers[t]; len(entries) > 0 {
			irc.checkRequiredTags(t, ev)
			// Snapshot, so handlers can attach and disconnect freely.
			entries = append([]handlerEntry(nil), entries...)
			for _, entry := range entries {
				entry.fn(ev)
			}
		}
		ev.current++
	}
}

// checkRequiredTags enforces an identity's declared tag requirements. An
// event promoted to an identity without its tags is a bug in the producer,
// so a violation is fatal.
func (irc *IRC) checkRequiredTags(t EventType, ev *Event) {
	for _, k := range t.def.requires {
		if !ev.Data.Has(k) {
			panic(fmt.Sprintf("slirc: event dispatched as %v without required tag %v", t, k))
		}
	}
}

// Run fetches and dispatches events until ctx is done, then returns the
// context's error. It is the worker loop; run at most one per context.
func (irc *IRC) Run(ctx context.Context) error {
	const tick = 200 * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !irc.eventAvailable.Wait(tick) {
			continue
		}
		for ev := irc.FetchEvent(); ev != nil; ev = irc.FetchEvent() {
			ev.Handle()
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
}
