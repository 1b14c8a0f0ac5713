package proto

import (
	"strings"

	"git.sr.ht/~slashlife/slirc"
	"git.sr.ht/~slashlife/slirc/conn"
)

// API is the module identity for protocol parsers.
var API = slirc.NewAPIType("protocol")

// ClientToServer parses the server-to-client direction of the protocol. It
// subscribes to raw line events and promotes each through ParsedEvent and,
// depending on the command, one of the specific protocol events, attaching
// the matching tags along the way.
type ClientToServer struct {
	parser slirc.HandlerHandle
}

// NewClientToServer creates the parser module and loads it into the
// context.
func NewClientToServer(irc *slirc.IRC) *ClientToServer {
	m := &ClientToServer{}
	m.parser = irc.Attach(conn.RawLineEvent, m.parse, slirc.PhaseHandler)
	irc.Load(m)
	return m
}

// ModuleAPI implements slirc.Module.
func (m *ClientToServer) ModuleAPI() slirc.APIType { return API }

// Unload implements slirc.Module.
func (m *ClientToServer) Unload() { m.parser.Disconnect() }

func (m *ClientToServer) parse(ev *slirc.Event) {
	line := slirc.MustTag[conn.RawLine](&ev.Data).Line

	ev.QueueAs(ParsedEvent, false)

	params := Split(line)
	slirc.SetTag(&ev.Data, Parameters{Params: params})

	if len(params) == 0 {
		return
	}

	if params[0][0] == ':' {
		// The line carries an origin prefix. Only the trailing parameter
		// can be empty, so indexing params[0][0] above is safe.
		slirc.SetTag(&ev.Data, Origin{Mask: params[0][1:]})

		if len(params) < 2 {
			return
		}
		switch {
		case isNumeric(params[1]):
			slirc.SetTag(&ev.Data, Numeric{Number: numericValue(params[1])})
			ev.QueueAs(NumericEvent, false)
		case params[1] == "QUIT":
			if len(params) > 2 {
				slirc.SetTag(&ev.Data, Message{Raw: params[2]})
			}
			ev.QueueAs(QuitEvent, false)
		case len(params) < 3:
			return
		case params[1] == "NICK":
			mask := params[0][1:]
			old := mask
			if i := strings.IndexByte(mask, '!'); i >= 0 {
				old = mask[:i]
			}
			slirc.SetTag(&ev.Data, NickChange{OldNick: old, NewNick: params[2]})
			ev.QueueAs(NickEvent, false)
		case params[1] == "PART":
			slirc.SetTag(&ev.Data, Recipient{Target: params[2]})
			if len(params) > 3 {
				slirc.SetTag(&ev.Data, Message{Raw: params[3]})
			}
			ev.QueueAs(PartEvent, false)
		}
		return
	}

	// No prefix: a command from the peer itself.
	if len(params) < 2 {
		return
	}
	if params[0] == "PING" {
		slirc.SetTag(&ev.Data, Message{Raw: params[1]})
		ev.QueueAs(PingEvent, false)
	}
}

// isNumeric reports whether s is exactly three ASCII decimal digits.
func isNumeric(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return true
}

func numericValue(s string) int {
	return int(s[0]-'0')*100 + int(s[1]-'0')*10 + int(s[2]-'0')
}
