package listener

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"oneshot-httpd/utils"
)

// Resolve turns a protocol specifier (numeric port or service name) into the
// IPv4 stream addresses a server socket may bind, in resolver order. An empty
// host yields the wildcard address only.
func Resolve(protocol, host string) ([]*unix.SockaddrInet4, error) {
	port, err := resolvePort(protocol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	if host == "" {
		return []*unix.SockaddrInet4{{Port: port}}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	var out []*unix.SockaddrInet4
	for _, ip := range ips {
		ip4 := ip.To4()
		if ip4 == nil {
			continue
		}
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], ip4)
		out = append(out, sa)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no IPv4 address for %q", ErrResolutionFailed, host)
	}
	return out, nil
}

func resolvePort(protocol string) (int, error) {
	if protocol == "" {
		return 0, fmt.Errorf("empty protocol")
	}
	if utils.IsNumericPort(protocol) {
		return utils.ParsePort(protocol)
	}
	return net.LookupPort("tcp", protocol)
}
