// Package proto implements the IRC protocol layer: the RFC 1459 line
// splitter, the tags and event identities the protocol core defines, and
// the parser module that promotes raw lines into typed events.
package proto

import "git.sr.ht/~slashlife/slirc"

// MessageKind classifies the payload of a Message tag.
type MessageKind int

const (
	Other MessageKind = iota
	Privmsg
	Notice
)

func (k MessageKind) String() string {
	switch k {
	case Privmsg:
		return "privmsg"
	case Notice:
		return "notice"
	default:
		return "other"
	}
}

// Parameters carries the parameters split from a raw line.
type Parameters struct {
	Params []string
}

// Origin names who caused a line: the verbatim user mask or server name of
// the sender.
type Origin struct {
	Mask string
}

// Recipient names the channel or nick a line is directed at.
type Recipient struct {
	Target string
}

// Message carries the text payload of a line.
type Message struct {
	Raw  string
	Kind MessageKind
}

// NickChange describes a nickname change.
type NickChange struct {
	OldNick string
	NewNick string
}

// Numeric carries a three digit reply code.
type Numeric struct {
	Number int
}

// CTCP carries a client-to-client protocol payload: the subcommand (for
// example "ACTION" or "VERSION") and the undecoded remainder.
type CTCP struct {
	Kind string
	Raw  string
}

var (
	// ParsedEvent is raised for every line after parameter splitting.
	ParsedEvent = slirc.NewEventType("proto.parsed",
		slirc.TagKeyOf[Parameters]())

	// NumericEvent is raised for lines whose command is a three digit
	// reply code.
	NumericEvent = slirc.NewEventType("proto.numeric",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin](), slirc.TagKeyOf[Numeric]())

	// NickEvent is raised when a user changes nickname.
	NickEvent = slirc.NewEventType("proto.nick",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin](), slirc.TagKeyOf[NickChange]())

	// QuitEvent is raised when a user quits. A Message tag is attached
	// iff a quit message was sent.
	QuitEvent = slirc.NewEventType("proto.quit",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin]())

	// PartEvent is raised when a user leaves a channel. A Message tag is
	// attached iff a part message was sent.
	PartEvent = slirc.NewEventType("proto.part",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin](), slirc.TagKeyOf[Recipient]())

	// PingEvent is raised when the server sends a PING. The Message tag
	// holds the token to return to the sender.
	PingEvent = slirc.NewEventType("proto.ping",
		slirc.TagKeyOf[Message]())

	// MessageEvent is raised by the Messages module for PRIVMSG and
	// NOTICE lines. The core parser does not produce it.
	MessageEvent = slirc.NewEventType("proto.message",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin](), slirc.TagKeyOf[Recipient](), slirc.TagKeyOf[Message]())

	// CTCPEvent is raised by the Messages module for CTCP-encoded PRIVMSG
	// and NOTICE lines instead of MessageEvent.
	CTCPEvent = slirc.NewEventType("proto.ctcp",
		slirc.TagKeyOf[Parameters](), slirc.TagKeyOf[Origin](), slirc.TagKeyOf[Recipient](), slirc.TagKeyOf[CTCP]())
)
