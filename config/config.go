// Package config loads client configuration files. Files use the scfg
// format, one directive per line:
//
//	address chat.freenode.net:6697
//	tls
//	nickname slashine
//	username slashine
//	realname "slashine the IRC bot"
//	password hunter2
package config

import (
	"errors"
	"io"

	"git.sr.ht/~emersion/go-scfg"
)

type Config struct {
	Addr     string
	Nick     string
	User     string
	Real     string
	Password string
	TLS      bool
}

var (
	errNoAddress  = errors.New("missing address directive")
	errNoNickname = errors.New("missing nickname directive")
)

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	block, err := scfg.Load(path)
	if err != nil {
		return Config{}, err
	}
	return parse(block)
}

// Read reads a configuration from r.
func Read(r io.Reader) (Config, error) {
	block, err := scfg.Read(r)
	if err != nil {
		return Config{}, err
	}
	return parse(block)
}

func parse(block scfg.Block) (cfg Config, err error) {
	for _, d := range block {
		switch d.Name {
		case "address":
			err = d.ParseParams(&cfg.Addr)
		case "nickname":
			err = d.ParseParams(&cfg.Nick)
		case "username":
			err = d.ParseParams(&cfg.User)
		case "realname":
			err = d.ParseParams(&cfg.Real)
		case "password":
			err = d.ParseParams(&cfg.Password)
		case "tls":
			cfg.TLS = true
		}
		if err != nil {
			return
		}
	}

	if cfg.Addr == "" {
		err = errNoAddress
		return
	}
	if cfg.Nick == "" {
		err = errNoNickname
		return
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.Real == "" {
		cfg.Real = cfg.Nick
	}
	return
}

// URL renders the connection target for the conn package, with the scheme
// chosen by the TLS setting.
func (cfg Config) URL() string {
	if cfg.TLS {
		return "ircs://" + cfg.Addr
	}
	return "irc://" + cfg.Addr
}
