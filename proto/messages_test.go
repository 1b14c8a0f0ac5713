package proto

import (
	"testing"

	"git.sr.ht/~slashlife/slirc"
	"git.sr.ht/~slashlife/slirc/conn"
)

// classifyLine is parseLine with the Messages extension loaded too.
func classifyLine(t *testing.T, line string) *slirc.Event {
	t.Helper()
	irc := slirc.New()
	NewClientToServer(irc)
	NewMessages(irc)

	ev := slirc.NewEvent(conn.RawLineEvent)
	slirc.SetTag(&ev.Data, conn.RawLine{Line: line})
	irc.Dispatch(ev)
	return ev
}

func TestMessagesPrivmsg(t *testing.T) {
	ev := classifyLine(t, ":nick!user@host PRIVMSG #chan :hi there")

	if !ev.WasA(MessageEvent) {
		t.Fatalf("expected a message identity")
	}
	msg := slirc.MustTag[Message](&ev.Data)
	if msg.Raw != "hi there" || msg.Kind != Privmsg {
		t.Errorf("expected privmsg %q, got %v %q", "hi there", msg.Kind, msg.Raw)
	}
	if rcp := slirc.MustTag[Recipient](&ev.Data); rcp.Target != "#chan" {
		t.Errorf("expected recipient %q, got %q", "#chan", rcp.Target)
	}
}

func TestMessagesNotice(t *testing.T) {
	ev := classifyLine(t, ":srv NOTICE nick :maintenance soon")

	if !ev.WasA(MessageEvent) {
		t.Fatalf("expected a message identity")
	}
	if msg := slirc.MustTag[Message](&ev.Data); msg.Kind != Notice {
		t.Errorf("expected a notice, got %v", msg.Kind)
	}
}

func TestMessagesCTCP(t *testing.T) {
	ev := classifyLine(t, ":nick!u@h PRIVMSG target :\x01VERSION\x01")

	if ev.WasA(MessageEvent) || ev.WillBeA(MessageEvent) {
		t.Errorf("expected no plain message identity for a CTCP line")
	}
	if !ev.WasA(CTCPEvent) {
		t.Fatalf("expected a ctcp identity")
	}
	ctcp := slirc.MustTag[CTCP](&ev.Data)
	if ctcp.Kind != "VERSION" || ctcp.Raw != "" {
		t.Errorf("expected VERSION with empty payload, got %q %q", ctcp.Kind, ctcp.Raw)
	}
}

func TestMessagesCTCPAction(t *testing.T) {
	ev := classifyLine(t, ":nick!u@h PRIVMSG #chan :\x01ACTION waves slowly\x01")

	ctcp := slirc.MustTag[CTCP](&ev.Data)
	if ctcp.Kind != "ACTION" || ctcp.Raw != "waves slowly" {
		t.Errorf("expected ACTION %q, got %q %q", "waves slowly", ctcp.Kind, ctcp.Raw)
	}
}

func TestMessagesIgnoresOtherLines(t *testing.T) {
	lines := []string{
		"PING :x",                // unprefixed
		":pfx PRIVMSG #c",        // no body
		":alice!u@h PART #c :hm", // not a message command
		":srv 001 nick :Welcome",
	}
	for _, line := range lines {
		ev := classifyLine(t, line)
		if ev.WasA(MessageEvent) || ev.WasA(CTCPEvent) {
			t.Errorf("%q: expected no message or ctcp identity", line)
		}
	}
}
