package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"
	"mvdan.cc/xurls/v2"

	"git.sr.ht/~slashlife/slirc"
	"git.sr.ht/~slashlife/slirc/config"
	"git.sr.ht/~slashlife/slirc/conn"
	"git.sr.ht/~slashlife/slirc/proto"
)

var (
	configPath string
	address    string
	nick       string
	password   string
	useTLS     bool
	debug      bool
)

func main() {
	parseFlags()

	oldState, err := term.MakeRaw(0)
	if err != nil {
		log.Fatalln(err)
	}
	defer term.Restore(0, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, "> ")
	log.SetOutput(t)

	target := address
	if useTLS {
		target = "ircs://" + target
	}

	ircx := slirc.New()
	tcp := conn.NewTCP(ircx, target)
	proto.NewClientToServer(ircx)
	proto.NewMessages(ircx)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ircx.Attach(conn.StatusChangeEvent, func(ev *slirc.Event) {
		sc := slirc.MustTag[conn.StatusChange](&ev.Data)
		fmt.Fprintf(t, "** %v -> %v\n", sc.Old, sc.New)
		switch sc.New {
		case conn.StatusConnected:
			if password != "" {
				tcp.Send("PASS " + password + "\r\n")
			}
			tcp.Send("NICK " + nick + "\r\n")
			tcp.Send("USER " + nick + " 0 * :" + nick + "\r\n")
		case conn.StatusDisconnected:
			cancel()
		}
	}, slirc.PhaseHandler)

	ircx.Attach(conn.RawLineEvent, func(ev *slirc.Event) {
		if debug {
			fmt.Fprintf(t, "C <  S: %s\n", slirc.MustTag[conn.RawLine](&ev.Data).Line)
		}
	}, slirc.PhasePrefilter)

	ircx.Attach(proto.PingEvent, func(ev *slirc.Event) {
		tcp.Send("PONG :" + slirc.MustTag[proto.Message](&ev.Data).Raw + "\r\n")
	}, slirc.PhaseHandler)

	urlRx := xurls.Strict()
	ircx.Attach(proto.MessageEvent, func(ev *slirc.Event) {
		from, _, _ := proto.SplitMask(slirc.MustTag[proto.Origin](&ev.Data).Mask)
		to := slirc.MustTag[proto.Recipient](&ev.Data).Target
		msg := slirc.MustTag[proto.Message](&ev.Data)
		fmt.Fprintf(t, "%s %s: %s\n", from, to, msg.Raw)
		for _, u := range urlRx.FindAllString(msg.Raw, -1) {
			fmt.Fprintf(t, "   url: %s\n", u)
		}
	}, slirc.PhaseHandler)

	ircx.Attach(proto.CTCPEvent, func(ev *slirc.Event) {
		from, _, _ := proto.SplitMask(slirc.MustTag[proto.Origin](&ev.Data).Mask)
		ctcp := slirc.MustTag[proto.CTCP](&ev.Data)
		fmt.Fprintf(t, "%s CTCP %s %s\n", from, ctcp.Kind, ctcp.Raw)
		if ctcp.Kind == "VERSION" {
			tcp.Send("NOTICE " + from + " :\x01VERSION slirc\x01\r\n")
		}
	}, slirc.PhaseHandler)

	ircx.Attach(proto.NumericEvent, func(ev *slirc.Event) {
		num := slirc.MustTag[proto.Numeric](&ev.Data)
		prm := slirc.MustTag[proto.Parameters](&ev.Data)
		fmt.Fprintf(t, "%03d %v\n", num.Number, prm.Params[2:])
	}, slirc.PhaseHandler)

	ircx.Attach(proto.NickEvent, func(ev *slirc.Event) {
		nc := slirc.MustTag[proto.NickChange](&ev.Data)
		fmt.Fprintf(t, "** %s is now known as %s\n", nc.OldNick, nc.NewNick)
	}, slirc.PhaseHandler)

	ircx.Attach(proto.QuitEvent, func(ev *slirc.Event) {
		from, _, _ := proto.SplitMask(slirc.MustTag[proto.Origin](&ev.Data).Mask)
		reason := ""
		if msg, ok := slirc.GetTag[proto.Message](&ev.Data); ok {
			reason = " (" + msg.Raw + ")"
		}
		fmt.Fprintf(t, "** %s quit%s\n", from, reason)
	}, slirc.PhaseHandler)

	ircx.Attach(proto.PartEvent, func(ev *slirc.Event) {
		from, _, _ := proto.SplitMask(slirc.MustTag[proto.Origin](&ev.Data).Mask)
		to := slirc.MustTag[proto.Recipient](&ev.Data).Target
		fmt.Fprintf(t, "** %s left %s\n", from, to)
	}, slirc.PhaseHandler)

	go func() {
		for {
			line, err := t.ReadLine()
			if err != nil {
				tcp.Disconnect()
				return
			}
			if line == "" {
				continue
			}
			if debug {
				fmt.Fprintf(t, "C  > S: %s\n", line)
			}
			tcp.Send(line + "\r\n")
		}
	}()

	fmt.Fprintf(t, "Connecting to %s...\n", target)
	tcp.Connect()

	_ = ircx.Run(ctx)
	fmt.Fprintln(t, "Disconnected")
}

func parseFlags() {
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.StringVar(&address, "address", "", "server address")
	flag.StringVar(&nick, "nick", "slirc", "IRC nick to use")
	flag.StringVar(&password, "password", "", "connection password")
	flag.BoolVar(&useTLS, "tls", false, "use tls")
	flag.BoolVar(&debug, "debug", false, "print raw traffic")
	flag.Parse()

	if address == "" {
		if configPath == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				log.Fatalln(err)
			}
			configPath = configDir + "/slirc/config"
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalln(err)
		}

		address = cfg.Addr
		nick = cfg.Nick
		password = cfg.Password
		useTLS = cfg.TLS
	}
}
