package httpx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRequest reports a request line that is not "METHOD URI HTTP/x".
var ErrMalformedRequest = errors.New("malformed request line")

// maxLine bounds a single request or header line.
const maxLine = 8192

// Request holds the three fields of a request line.
type Request struct {
	Method  string
	URI     string
	Version string
}

func (r *Request) String() string {
	return r.Method + " " + r.URI + " " + r.Version
}

// ParseRequestLine reads "METHOD URI VERSION" and discards header lines that
// have already arrived, up to the blank line. Nothing past the request line is
// interpreted.
func ParseRequestLine(br *bufio.Reader) (*Request, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	parts := strings.Fields(line)
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "HTTP/") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	req := &Request{Method: parts[0], URI: parts[1], Version: parts[2]}

	// Unread input left in the socket makes close send RST, which can drop
	// the response on the peer side. Only complete lines are drained; a
	// partial one would block until the read deadline.
	for hasBufferedLine(br) {
		h, err := readLine(br)
		if err != nil || h == "" {
			break
		}
	}
	return req, nil
}

func hasBufferedLine(br *bufio.Reader) bool {
	buf, _ := br.Peek(br.Buffered())
	return bytes.IndexByte(buf, '\n') >= 0
}

func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", err
		}
		sb.Write(chunk)
		if sb.Len() > maxLine {
			return "", errors.New("line too long")
		}
		if !isPrefix {
			return sb.String(), nil
		}
	}
}
