package proto

import (
	"testing"

	"git.sr.ht/~slashlife/slirc"
	"git.sr.ht/~slashlife/slirc/conn"
)

// parseLine runs one raw line through a context with the parser loaded and
// returns the fully dispatched event.
func parseLine(t *testing.T, line string) *slirc.Event {
	t.Helper()
	irc := slirc.New()
	NewClientToServer(irc)

	ev := slirc.NewEvent(conn.RawLineEvent)
	slirc.SetTag(&ev.Data, conn.RawLine{Line: line})
	irc.QueueEvent(ev)
	fetched := irc.FetchEvent()
	if fetched != ev {
		t.Fatalf("expected to fetch the queued event back")
	}
	fetched.Handle()
	return ev
}

func TestParsePrivmsg(t *testing.T) {
	ev := parseLine(t, ":nick!user@host PRIVMSG #chan :hi there")

	if !ev.WasA(ParsedEvent) {
		t.Errorf("expected the event to have been parsed")
	}
	if org := slirc.MustTag[Origin](&ev.Data); org.Mask != "nick!user@host" {
		t.Errorf("expected origin %q, got %q", "nick!user@host", org.Mask)
	}
	// PRIVMSG is not one of the commands the core parser promotes.
	for _, id := range []slirc.EventType{NumericEvent, NickEvent, QuitEvent, PartEvent, PingEvent, MessageEvent} {
		if ev.WasA(id) || ev.WillBeA(id) {
			t.Errorf("expected no %v for a PRIVMSG line", id)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	ev := parseLine(t, ":srv.example 001 nick :Welcome")

	if !ev.WasA(ParsedEvent) || !ev.WasA(NumericEvent) {
		t.Errorf("expected parsed and numeric identities")
	}
	if num := slirc.MustTag[Numeric](&ev.Data); num.Number != 1 {
		t.Errorf("expected numeric 1, got %d", num.Number)
	}
	if org := slirc.MustTag[Origin](&ev.Data); org.Mask != "srv.example" {
		t.Errorf("expected origin %q, got %q", "srv.example", org.Mask)
	}
}

func TestParseNick(t *testing.T) {
	ev := parseLine(t, ":alice!u@h NICK bob")

	if !ev.WasA(NickEvent) {
		t.Errorf("expected a nick identity")
	}
	nc := slirc.MustTag[NickChange](&ev.Data)
	if nc.OldNick != "alice" || nc.NewNick != "bob" {
		t.Errorf("expected alice -> bob, got %q -> %q", nc.OldNick, nc.NewNick)
	}
}

func TestParseQuit(t *testing.T) {
	ev := parseLine(t, ":alice!u@h QUIT :bye")

	if !ev.WasA(QuitEvent) {
		t.Errorf("expected a quit identity")
	}
	if msg := slirc.MustTag[Message](&ev.Data); msg.Raw != "bye" {
		t.Errorf("expected quit message %q, got %q", "bye", msg.Raw)
	}
}

func TestParseQuitWithoutMessage(t *testing.T) {
	ev := parseLine(t, ":alice!u@h QUIT")

	if !ev.WasA(QuitEvent) {
		t.Errorf("expected a quit identity")
	}
	if _, ok := slirc.GetTag[Message](&ev.Data); ok {
		t.Errorf("expected no message tag without a quit message")
	}
}

func TestParsePart(t *testing.T) {
	ev := parseLine(t, ":alice!u@h PART #c :later")

	if !ev.WasA(PartEvent) {
		t.Errorf("expected a part identity")
	}
	if ev.WasA(QuitEvent) || ev.WillBeA(QuitEvent) {
		t.Errorf("expected no quit identity for a PART line")
	}
	if rcp := slirc.MustTag[Recipient](&ev.Data); rcp.Target != "#c" {
		t.Errorf("expected recipient %q, got %q", "#c", rcp.Target)
	}
	if msg := slirc.MustTag[Message](&ev.Data); msg.Raw != "later" {
		t.Errorf("expected part message %q, got %q", "later", msg.Raw)
	}
}

func TestParsePing(t *testing.T) {
	ev := parseLine(t, "PING :server1")

	if !ev.WasA(PingEvent) {
		t.Errorf("expected a ping identity")
	}
	if msg := slirc.MustTag[Message](&ev.Data); msg.Raw != "server1" {
		t.Errorf("expected ping token %q, got %q", "server1", msg.Raw)
	}
	if _, ok := slirc.GetTag[Origin](&ev.Data); ok {
		t.Errorf("expected no origin on an unprefixed line")
	}
}

func TestParseEdgeCases(t *testing.T) {
	// All of these must parse without promoting past ParsedEvent.
	lines := []string{
		"",
		"   ",
		":only.prefix",
		":pfx NICK", // NICK without the new nick
		":pfx PART", // PART without a channel
		"PING",      // PING without a token
		"UNKNOWN a b c",
	}
	for _, line := range lines {
		ev := parseLine(t, line)
		for _, id := range []slirc.EventType{NumericEvent, NickEvent, QuitEvent, PartEvent, PingEvent} {
			if ev.WasA(id) || ev.WillBeA(id) {
				t.Errorf("%q: expected no %v", line, id)
			}
		}
		if line != "" && line != "   " {
			if !ev.WasA(ParsedEvent) {
				t.Errorf("%q: expected the line to have been parsed", line)
			}
		}
	}
}

func TestParserUnload(t *testing.T) {
	irc := slirc.New()
	NewClientToServer(irc)
	if err := irc.Unload(API); err != nil {
		t.Fatalf("expected unload to succeed, got %v", err)
	}

	// With the parser gone, raw lines are no longer promoted.
	ev := slirc.NewEvent(conn.RawLineEvent)
	slirc.SetTag(&ev.Data, conn.RawLine{Line: "PING :x"})
	irc.Dispatch(ev)
	if ev.WasA(ParsedEvent) {
		t.Errorf("expected no parsing after the module was unloaded")
	}
}
