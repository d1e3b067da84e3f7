package listener

import (
	"fmt"
	"net"
	"time"
)

// Accept waits for one inbound connection and returns it with the peer's
// dotted-decimal IPv4 address. If accepting fails the endpoint is closed; the
// server does not keep listening after a failed accept.
func Accept(ep *Endpoint) (*net.TCPConn, string, error) {
	conn, err := ep.ln.AcceptTCP()
	if err != nil {
		ep.Close()
		return nil, "", fmt.Errorf("%w: %v", ErrAcceptFailed, err)
	}

	if d := ep.opts.ReceiveTimeout; d > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(d)); err != nil {
			conn.Close()
			ep.Close()
			return nil, "", fmt.Errorf("%w: read deadline: %v", ErrAcceptFailed, err)
		}
	}
	return conn, peerAddress(conn.RemoteAddr()), nil
}

func peerAddress(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	if ip4 := tcp.IP.To4(); ip4 != nil {
		return ip4.String()
	}
	return tcp.IP.String()
}
