// Package conn defines the connection module API and a TCP implementation
// of it. A connection module owns the transport: it frames received bytes
// into raw line events for the rest of the stack and writes outgoing data.
package conn

import "git.sr.ht/~slashlife/slirc"

// API is the module identity shared by all connection implementations.
var API = slirc.NewAPIType("connection")

// A Connection manages the transport of one IRC context.
type Connection interface {
	slirc.Module

	// Connect starts establishing the connection. It returns immediately;
	// progress is reported through StatusChangeEvent.
	Connect()

	// Disconnect shuts the connection down.
	Disconnect()

	// Status reports the current connection status.
	Status() Status

	// Send queues data for transmission. Data is written only while the
	// connection is in StatusConnected and dropped silently otherwise.
	// The caller is responsible for the trailing CRLF.
	Send(data string)
}

// Status describes the state of a connection.
//
// Valid transitions:
//
//	disconnected -> connecting    (attempting to establish a connection)
//	connecting   -> connected     (connection attempt successful)
//	connecting   -> disconnecting (connection attempt was aborted)
//	connecting   -> disconnected  (connection attempt failed)
//	connected    -> disconnecting (established connection is shut down)
//	connected    -> disconnected  (unexpected connection loss)
//	disconnecting-> disconnected  (connection shutdown complete)
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusDisconnecting
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// StatusChange is the tag attached to StatusChangeEvent.
type StatusChange struct {
	Old Status
	New Status
}

// RawLine is the tag attached to RawLineEvent. Line is the received IRC
// line, stripped of leading whitespace and the line ending.
type RawLine struct {
	Line string
}

var (
	// StatusChangeEvent is raised whenever the connection status changes.
	StatusChangeEvent = slirc.NewEventType("conn.status_change",
		slirc.TagKeyOf[StatusChange]())

	// RawLineEvent is raised for every received line.
	RawLineEvent = slirc.NewEventType("conn.raw_line",
		slirc.TagKeyOf[RawLine]())
)
