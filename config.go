package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"oneshot-httpd/listener"
)

// Config holds the command line settings. Every flag can also be set from the
// environment or a .env file in the working directory.
type Config struct {
	Protocol       string
	Root           string
	Index          string
	Iface          string
	Backlog        int
	ReceiveTimeout time.Duration
	ReuseAddress   bool
}

func newDefaultConfig() Config {
	d := listener.DefaultOptions()
	return Config{
		Protocol:       "3456",
		Root:           "srv_root",
		Index:          "index.html",
		Backlog:        d.Backlog,
		ReceiveTimeout: d.ReceiveTimeout,
		ReuseAddress:   d.ReuseAddress,
	}
}

// ParseConfig loads .env if present and parses args on top of the
// environment-backed defaults.
func ParseConfig(args []string, stderr io.Writer) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("error: failed to load .env file: %v", err)
	}

	c := newDefaultConfig()
	fs := flag.NewFlagSet("httpd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }

	fs.StringVar(&c.Protocol, "p", envString("HTTPD_PROTOCOL", c.Protocol), "use application protocol or port P instead of the default port")
	fs.StringVar(&c.Root, "root", envString("HTTPD_ROOT", c.Root), "document root")
	fs.StringVar(&c.Index, "index", envString("HTTPD_INDEX", c.Index), "document served for /")
	fs.StringVar(&c.Iface, "iface", envString("HTTPD_IFACE", c.Iface), "bind to the first IPv4 address of this interface instead of all addresses")
	fs.IntVar(&c.Backlog, "backlog", envInt("HTTPD_BACKLOG", c.Backlog), "listen backlog")
	fs.DurationVar(&c.ReceiveTimeout, "rcvtimeout", envDuration("HTTPD_RCVTIMEOUT", c.ReceiveTimeout), "socket receive timeout")
	fs.BoolVar(&c.ReuseAddress, "reuseaddr", envBool("HTTPD_REUSEADDR", c.ReuseAddress), "set SO_REUSEADDR on the server socket")

	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if fs.NArg() > 0 {
		usage(fs)
		return c, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return c, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: httpd [options]\n Options are:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\n Possible requests are:\n")
	for _, v := range []string{"HTTP/1.0", "HTTP/1.1"} {
		for _, p := range []string{"/", "/index.html", "/bootstrap.html"} {
			fmt.Fprintf(w, "  \"GET %s %s\"\n", p, v)
		}
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("error: %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("error: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("error: %s=%q is not a bool, using %t", key, v, def)
		return def
	}
	return b
}
