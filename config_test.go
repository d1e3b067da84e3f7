package main

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if c.Protocol != "3456" || c.Root != "srv_root" || c.Index != "index.html" {
		t.Fatalf("defaults got=%+v", c)
	}
	if c.Backlog != 5 || c.ReceiveTimeout != 10*time.Second || !c.ReuseAddress {
		t.Fatalf("socket defaults got=%+v", c)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("HTTPD_PROTOCOL", "http")
	t.Setenv("HTTPD_RCVTIMEOUT", "2s")
	t.Setenv("HTTPD_BACKLOG", "notanumber")

	c, err := ParseConfig([]string{"-root", "/srv/www", "-reuseaddr=false"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if c.Protocol != "http" {
		t.Fatalf("Protocol got=%q want=http", c.Protocol)
	}
	if c.ReceiveTimeout != 2*time.Second {
		t.Fatalf("ReceiveTimeout got=%s want=2s", c.ReceiveTimeout)
	}
	if c.Backlog != 5 {
		t.Fatalf("Backlog got=%d want=5", c.Backlog)
	}
	if c.Root != "/srv/www" || c.ReuseAddress {
		t.Fatalf("flags not applied: %+v", c)
	}

	// Flags win over the environment.
	c, err = ParseConfig([]string{"-p", "8080"}, io.Discard)
	if err != nil || c.Protocol != "8080" {
		t.Fatalf("Protocol got=%q err=%v want=8080", c.Protocol, err)
	}
}

func TestParseConfigHelp(t *testing.T) {
	if _, err := ParseConfig([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("ParseConfig(-h) got=%v want=flag.ErrHelp", err)
	}
	if _, err := ParseConfig([]string{"extra"}, io.Discard); err == nil {
		t.Fatalf("ParseConfig with positional args expected error")
	}
}

func TestListenerOptions(t *testing.T) {
	c := newDefaultConfig()
	opts, err := listenerOptions(c)
	if err != nil {
		t.Fatalf("listenerOptions error: %v", err)
	}
	if opts.Host != "" || opts.Backlog != 5 || !opts.ReuseAddress {
		t.Fatalf("listenerOptions got=%+v", opts)
	}

	c.Iface = "no-such-iface0"
	if _, err := listenerOptions(c); err == nil {
		t.Fatalf("listenerOptions with unknown interface expected error")
	}
}
