package proto

import (
	"strings"

	"git.sr.ht/~slashlife/slirc"
)

// MessagesAPI is the module identity for message classifiers.
var MessagesAPI = slirc.NewAPIType("messages")

// ctcpDelim frames CTCP payloads inside PRIVMSG and NOTICE bodies.
const ctcpDelim = '\x01'

// Messages is an optional extension module that promotes PRIVMSG and
// NOTICE lines into MessageEvent, or CTCPEvent when the body is
// CTCP-encoded. It runs at the postfilter phase of ParsedEvent, after the
// core parser has attached its tags, and changes nothing unless it is
// loaded.
type Messages struct {
	classifier slirc.HandlerHandle
}

// NewMessages creates the classifier module and loads it into the context.
func NewMessages(irc *slirc.IRC) *Messages {
	m := &Messages{}
	m.classifier = irc.Attach(ParsedEvent, m.classify, slirc.PhasePostfilter)
	irc.Load(m)
	return m
}

// ModuleAPI implements slirc.Module.
func (m *Messages) ModuleAPI() slirc.APIType { return MessagesAPI }

// Unload implements slirc.Module.
func (m *Messages) Unload() { m.classifier.Disconnect() }

func (m *Messages) classify(ev *slirc.Event) {
	params := slirc.MustTag[Parameters](&ev.Data).Params

	// Only prefixed lines with a recipient and a body qualify; anything
	// else is not a message for us.
	if len(params) < 4 || params[0][0] != ':' {
		return
	}

	var kind MessageKind
	switch params[1] {
	case "PRIVMSG":
		kind = Privmsg
	case "NOTICE":
		kind = Notice
	default:
		return
	}

	slirc.SetTag(&ev.Data, Recipient{Target: params[2]})

	body := params[3]
	if len(body) > 0 && body[0] == ctcpDelim {
		ctcpKind, raw := splitCTCP(body)
		slirc.SetTag(&ev.Data, CTCP{Kind: ctcpKind, Raw: raw})
		ev.QueueAs(CTCPEvent, false)
		return
	}

	slirc.SetTag(&ev.Data, Message{Raw: body, Kind: kind})
	ev.QueueAs(MessageEvent, false)
}

// splitCTCP takes a body known to start with the CTCP delimiter and
// returns the uppercased subcommand and the remaining payload. The closing
// delimiter is optional; some clients omit it.
func splitCTCP(body string) (kind, raw string) {
	body = body[1:]
	if n := len(body); n > 0 && body[n-1] == ctcpDelim {
		body = body[:n-1]
	}
	kind = body
	if i := strings.IndexByte(body, ' '); i >= 0 {
		kind, raw = body[:i], body[i+1:]
	}
	kind = strings.ToUpper(kind)
	return
}
