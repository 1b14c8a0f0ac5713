package conn

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"git.sr.ht/~slashlife/slirc"
)

// outCapacity bounds the number of lines queued for transmission. Sends
// beyond it while the writer is paced are dropped.
const outCapacity = 64

// TCP implements the Connection API over TCP, optionally with TLS.
//
// The target takes the form "[irc://|ircs://]host[:port]". The port
// defaults to 6667; "ircs://" enables TLS.
type TCP struct {
	// DialFn overrides how the network connection is established, for
	// custom transports and tests. When nil, the target is dialed over
	// TCP (or TLS). Set it before calling Connect.
	DialFn func() (net.Conn, error)

	// Limit paces outgoing writes so the server's flood protection is not
	// tripped. Set it before calling Connect; nil disables pacing.
	Limit *rate.Limiter

	irc *slirc.IRC

	mu     sync.Mutex
	status Status
	conn   net.Conn
	out    chan string

	host   string
	port   string
	useTLS bool
}

// NewTCP creates a TCP connection module for the given target and loads it
// into the context.
func NewTCP(irc *slirc.IRC, target string) *TCP {
	t := &TCP{
		irc:    irc,
		status: StatusDisconnected,
		Limit:  rate.NewLimiter(rate.Every(500*time.Millisecond), 10),
	}
	t.host, t.port, t.useTLS = splitTarget(target)
	irc.Load(t)
	return t
}

// splitTarget parses a connection target. The port is the trailing
// all-digit run after the final ':'; without one, the whole remainder is
// the host.
func splitTarget(target string) (host, port string, useTLS bool) {
	port = "6667"
	switch {
	case strings.HasPrefix(target, "ircs://"):
		target = target[len("ircs://"):]
		useTLS = true
	case strings.HasPrefix(target, "irc://"):
		target = target[len("irc://"):]
	}
	host = target

	i := len(host)
	for i > 0 && '0' <= host[i-1] && host[i-1] <= '9' {
		i--
	}
	if i > 0 && i < len(host) && host[i-1] == ':' {
		port = host[i:]
		host = host[:i-1]
	}
	return
}

// ModuleAPI implements slirc.Module.
func (t *TCP) ModuleAPI() slirc.APIType { return API }

// Unload implements slirc.Module. It drops the connection.
func (t *TCP) Unload() { t.Disconnect() }

// Status implements Connection.
func (t *TCP) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Connect implements Connection. Calling it in any state other than
// disconnected does nothing.
func (t *TCP) Connect() {
	t.mu.Lock()
	if t.status != StatusDisconnected {
		t.mu.Unlock()
		return
	}
	t.changeStatus(StatusConnecting)
	out := make(chan string, outCapacity)
	t.out = out
	t.mu.Unlock()

	go t.run(out)
}

// Disconnect implements Connection.
func (t *TCP) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.status {
	case StatusConnecting, StatusConnected:
		t.changeStatus(StatusDisconnecting)
		if t.conn != nil {
			_ = t.conn.Close()
		}
	}
}

// Send implements Connection.
func (t *TCP) Send(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusConnected || t.out == nil {
		return
	}
	select {
	case t.out <- data:
	default:
		// The writer is paced and the queue is full; the line is lost
		// rather than blocking the caller.
	}
}

func (t *TCP) run(out chan string) {
	dial := t.DialFn
	if dial == nil {
		dial = t.dial
	}
	c, err := dial()

	t.mu.Lock()
	if err != nil || t.status != StatusConnecting {
		// The attempt failed, or Disconnect aborted it while the dial was
		// in flight.
		if c != nil {
			_ = c.Close()
		}
		close(out)
		t.out = nil
		t.changeStatus(StatusDisconnected)
		t.mu.Unlock()
		return
	}
	t.conn = c
	t.changeStatus(StatusConnected)
	t.mu.Unlock()

	go t.writeLoop(c, out)
	t.readLoop(c)

	t.mu.Lock()
	t.conn = nil
	close(out)
	t.out = nil
	t.changeStatus(StatusDisconnected)
	t.mu.Unlock()
}

func (t *TCP) dial() (net.Conn, error) {
	addr := net.JoinHostPort(t.host, t.port)
	if t.useTLS {
		return tls.Dial("tcp", addr, nil)
	}
	return net.Dial("tcp", addr)
}

// ingressJunk is what gets stripped from the front of received lines.
const ingressJunk = "\x00\t\r\n "

// readLoop splits received bytes into lines and queues a RawLineEvent for
// each. It returns when the connection dies.
func (t *TCP) readLoop(c net.Conn) {
	s := bufio.NewScanner(c)
	s.Split(scanCRLF)
	for s.Scan() {
		line := strings.TrimLeft(s.Text(), ingressJunk)
		if line == "" {
			continue
		}
		ev := slirc.NewEvent(RawLineEvent)
		slirc.SetTag(&ev.Data, RawLine{Line: line})
		t.irc.QueueEvent(ev)
	}
}

// scanCRLF splits on every CR or LF byte. A trailing fragment without a
// line ending is never emitted.
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// writeLoop drains out onto the connection, paced by the rate limiter. It
// closes the connection on the way out so the read side unblocks too.
func (t *TCP) writeLoop(c net.Conn, out <-chan string) {
	for data := range out {
		if t.Limit != nil {
			if err := t.Limit.Wait(context.Background()); err != nil {
				break
			}
		}
		if _, err := c.Write([]byte(data)); err != nil {
			break
		}
	}
	_ = c.Close()
}

// changeStatus switches to the given status and queues a
// StatusChangeEvent. The caller must hold t.mu. Switching to the current
// status raises no event.
func (t *TCP) changeStatus(to Status) {
	if to == t.status {
		return
	}
	ev := slirc.NewEvent(StatusChangeEvent)
	slirc.SetTag(&ev.Data, StatusChange{Old: t.status, New: to})
	t.status = to
	t.irc.QueueEvent(ev)
}
