// Package waitable provides an edge-triggered gate for blocking a worker
// until any of several conditions becomes true.
//
// A gate is either open or closed. Waiting on an open gate returns
// immediately; waiting on a closed gate blocks until the gate is opened or
// the wait times out. Closing a gate never wakes anybody: only Open does.
package waitable

import (
	"sync"
	"time"
)

// A Waitable is a gate usable as a wait condition. It must not be copied
// after first use. All methods are safe from any goroutine.
type Waitable struct {
	mu        sync.Mutex
	open      bool
	callbacks []func()
}

// New returns a new gate in the open state.
func New() *Waitable {
	return &Waitable{open: true}
}

// Open opens the gate. Pending waits are woken and the registered
// callbacks fire exactly once each, in registration order. Opening an open
// gate does nothing.
//
// Callbacks run outside the gate's lock, so they may use the gate again.
func (w *Waitable) Open() {
	w.mu.Lock()
	if w.open {
		w.mu.Unlock()
		return
	}
	w.open = true
	cbs := w.callbacks
	w.callbacks = nil
	w.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// Close closes the gate. Closing has no callback side effects and does not
// wake or abort pending waits.
func (w *Waitable) Close() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
}

// IsOpen reports the gate state at the instant of the call.
func (w *Waitable) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// addCallback registers cb to fire on the next Open. If the gate is
// already open, cb fires immediately instead of being registered, and
// addCallback reports true: the condition already holds.
func (w *Waitable) addCallback(cb func()) bool {
	w.mu.Lock()
	if w.open {
		w.mu.Unlock()
		cb()
		return true
	}
	w.callbacks = append(w.callbacks, cb)
	w.mu.Unlock()
	return false
}

// Wait waits for the gate to become available and reports whether it did
// before the timeout expired. A negative timeout waits forever.
func (w *Waitable) Wait(timeout time.Duration) bool {
	return WaitAny([]*Waitable{w}, timeout) == 0
}

// WaitAny waits for at most timeout for any of the given gates to become
// available and returns its index, or -1 when the wait timed out. When
// several gates are already open, the first in slice order wins. A
// negative timeout waits forever; an empty slice returns -1 immediately.
func WaitAny(ws []*Waitable, timeout time.Duration) int {
	if len(ws) == 0 {
		return -1
	}

	// Each registered callback reports its gate's index on the channel.
	// The buffer is sized so no callback can ever block: callbacks left
	// behind after we return are consumed by a later Open and must not
	// hang it.
	fired := make(chan int, len(ws))
	for i, w := range ws {
		i := i
		if w.addCallback(func() { fired <- i }) {
			return i
		}
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case i := <-fired:
		return i
	case <-expired:
		return -1
	}
}
