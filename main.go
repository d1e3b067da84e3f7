package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpx "oneshot-httpd/http"
	"oneshot-httpd/listener"
	"oneshot-httpd/utils"
)

func listenerOptions(c Config) (listener.Options, error) {
	opts := listener.Options{
		ReuseAddress:   c.ReuseAddress,
		ReceiveTimeout: c.ReceiveTimeout,
		Backlog:        c.Backlog,
	}
	if c.Iface != "" {
		ip, err := utils.FirstIPv4Addr(c.Iface)
		if err != nil {
			return opts, fmt.Errorf("interface %s: %w", c.Iface, err)
		}
		opts.Host = ip.String()
	}
	return opts, nil
}

func main() {
	cfg, err := ParseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "httpd ", log.LstdFlags)

	opts, err := listenerOptions(cfg)
	if err != nil {
		log.Fatalf("listener options: %v", err)
	}
	b, err := httpx.NewRootBuilder(cfg.Root)
	if err != nil {
		log.Fatalf("document root: %v", err)
	}
	ep, err := listener.Setup(cfg.Protocol, opts)
	if err != nil {
		log.Fatalf("start http failure: %v", err)
	}
	logger.Printf("listening on %s (protocol %q) serving %q", ep.Addr(), cfg.Protocol, cfg.Root)

	// Closing the endpoint makes the pending accept fail and ServeOnce return.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		logger.Printf("received signal %s, exiting", sig)
		ep.Close()
	}()

	uri, err := httpx.ServeOnce(ep, b, cfg.Index, logger)
	if uri != "" {
		fmt.Printf("URI requested was: %s\n", uri)
	}
	if err != nil {
		logger.Printf("serve: %v", err)
		os.Exit(1)
	}
}
