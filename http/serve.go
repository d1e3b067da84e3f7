package httpx

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"

	"oneshot-httpd/listener"
)

// DocumentPath maps a request URI onto a path relative to the document root.
// The query string is dropped and "/" names the index document.
func DocumentPath(uri, index string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}
	if u, err := url.PathUnescape(uri); err == nil {
		uri = u
	}
	p := strings.TrimPrefix(path.Clean("/"+uri), "/")
	if p == "" || strings.HasSuffix(uri, "/") {
		p = path.Join(p, index)
	}
	return p
}

// ServeOnce accepts a single connection on ep, answers one GET request with a
// file read through b, and closes both the connection and the endpoint. It
// returns the requested URI when a request line was read.
func ServeOnce(ep *listener.Endpoint, b *Builder, index string, logger *log.Logger) (string, error) {
	defer ep.Close()

	conn, peer, err := listener.Accept(ep)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	if logger != nil {
		logger.Printf("connection from %s", peer)
	}

	req, err := ParseRequestLine(bufio.NewReader(conn))
	if err != nil {
		if logger != nil {
			logger.Printf("%s: %v", peer, err)
		}
		writeStatus(conn, HTTP10, "400 Bad Request")
		return "", err
	}
	if logger != nil {
		logger.Printf("%s %q", peer, req.String())
	}

	if req.Method != "GET" {
		writeStatus(conn, req.Version, "501 Not Implemented")
		return req.URI, fmt.Errorf("method %s not supported", req.Method)
	}

	resp, err := b.Build(DocumentPath(req.URI, index), req.Version)
	if err != nil {
		if logger != nil {
			logger.Printf("%s: %v", peer, err)
		}
		writeStatus(conn, req.Version, "404 Not Found")
		return req.URI, err
	}

	n, err := resp.WriteTo(conn)
	if err != nil {
		return req.URI, fmt.Errorf("write response to %s: %w", peer, err)
	}
	if logger != nil {
		logger.Printf("%s: sent %d bytes (%d body)", peer, n, len(resp.Body))
	}
	return req.URI, nil
}

// writeStatus sends a header-only response. Errors are ignored since the
// connection is closed right after.
func writeStatus(w io.Writer, version, status string) {
	r := &Response{lines: headerLines(version, status, 0)}
	_, _ = r.WriteTo(w)
}
