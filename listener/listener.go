// Package listener binds the server socket and accepts its single connection.
package listener

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Setup and Accept failures. None of them leaves a socket open.
var (
	ErrResolutionFailed = errors.New("protocol resolution failed")
	ErrBindFailed       = errors.New("bind failed")
	ErrAcceptFailed     = errors.New("accept failed")
)

// Options is the socket policy applied to every bind candidate.
type Options struct {
	ReuseAddress   bool
	ReceiveTimeout time.Duration
	Backlog        int
	// Host restricts binding to the IPv4 addresses of this name. Empty means
	// the wildcard address.
	Host string
}

// DefaultOptions is address reuse, a 10 second receive timeout and a backlog
// of 5 on the wildcard address.
func DefaultOptions() Options {
	return Options{
		ReuseAddress:   true,
		ReceiveTimeout: 10 * time.Second,
		Backlog:        5,
	}
}

// Endpoint is a bound, listening socket.
type Endpoint struct {
	Family   int
	SockType int

	ln   *net.TCPListener
	opts Options

	closeOnce sync.Once
	closeErr  error
}

// Setup resolves protocol and binds the first candidate address that accepts
// the socket options in opts. On failure no socket is left open.
func Setup(protocol string, opts Options) (*Endpoint, error) {
	if opts.Backlog <= 0 {
		opts.Backlog = DefaultOptions().Backlog
	}
	candidates, err := Resolve(protocol, opts.Host)
	if err != nil {
		return nil, err
	}

	fd := -1
	var lastErr error
	for _, sa := range candidates {
		fd, lastErr = bindCandidate(sa, opts)
		if lastErr == nil {
			break
		}
	}
	if fd < 0 {
		return nil, fmt.Errorf("%w: %v", ErrBindFailed, lastErr)
	}

	if err := unix.Listen(fd, opts.Backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: listen: %v", ErrBindFailed, err)
	}

	// net.FileListener dups the descriptor, so the file is closed either way.
	f := os.NewFile(uintptr(fd), "listener")
	ln, err := net.FileListener(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBindFailed, err)
	}
	tcp, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("%w: unexpected listener type %T", ErrBindFailed, ln)
	}

	return &Endpoint{
		Family:   unix.AF_INET,
		SockType: unix.SOCK_STREAM,
		ln:       tcp,
		opts:     opts,
	}, nil
}

func bindCandidate(sa *unix.SockaddrInet4, opts Options) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	unix.CloseOnExec(fd)

	if err := setSocketOptions(fd, opts); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind %s: %w", sockaddrString(sa), err)
	}
	return fd, nil
}

func setSocketOptions(fd int, opts Options) error {
	if opts.ReuseAddress {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			return fmt.Errorf("SO_REUSEADDR: %w", err)
		}
	}
	if opts.ReceiveTimeout > 0 {
		tv := unix.NsecToTimeval(opts.ReceiveTimeout.Nanoseconds())
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			return fmt.Errorf("SO_RCVTIMEO: %w", err)
		}
	}
	return nil
}

func sockaddrString(sa *unix.SockaddrInet4) string {
	return net.JoinHostPort(net.IP(sa.Addr[:]).String(), fmt.Sprint(sa.Port))
}

// Addr returns the local address the endpoint is bound to.
func (e *Endpoint) Addr() *net.TCPAddr {
	return e.ln.Addr().(*net.TCPAddr)
}

// Options returns the socket policy the endpoint was created with.
func (e *Endpoint) Options() Options {
	return e.opts
}

// Close releases the listening socket. Calling it more than once is safe.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = e.ln.Close()
	})
	return e.closeErr
}
