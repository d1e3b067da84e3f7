package httpx

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{"http10", "GET / HTTP/1.0\r\n\r\n", Request{"GET", "/", "HTTP/1.0"}},
		{"http11 with headers", "GET /index.html HTTP/1.1\r\nHost: localhost\r\nUser-Agent: test\r\n\r\n", Request{"GET", "/index.html", "HTTP/1.1"}},
		{"bare LF", "GET /bootstrap.html HTTP/1.1\n\n", Request{"GET", "/bootstrap.html", "HTTP/1.1"}},
		{"no blank line", "HEAD /a HTTP/1.0\r\n", Request{"HEAD", "/a", "HTTP/1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequestLine(bufio.NewReader(strings.NewReader(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *req)
		})
	}
}

func TestParseRequestLineDrainsHeaders(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: x\r\n\r\nBODY"))
	_, err := ParseRequestLine(br)
	require.NoError(t, err)

	rest, _ := br.ReadString(0)
	assert.Equal(t, "BODY", rest)
}

func TestParseRequestLineMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"\r\n",
		"GET /\r\n",
		"GET / FTP/1.0\r\n",
		"GET / HTTP/1.0 extra\r\n",
		"GET /" + strings.Repeat("a", maxLine+10) + " HTTP/1.0\r\n",
	} {
		_, err := ParseRequestLine(bufio.NewReader(strings.NewReader(input)))
		assert.True(t, errors.Is(err, ErrMalformedRequest), "input %.20q: got %v", input, err)
	}
}

func TestRequestString(t *testing.T) {
	r := &Request{Method: "GET", URI: "/", Version: HTTP10}
	assert.Equal(t, "GET / HTTP/1.0", r.String())
}

func TestParseRequestLinePartialHeaderDoesNotBlock(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go client.Write([]byte("GET /index.html HTTP/1.1\r\nHost: local"))

	done := make(chan *Request, 1)
	go func() {
		req, err := ParseRequestLine(bufio.NewReader(server))
		if err != nil {
			req = nil
		}
		done <- req
	}()

	select {
	case req := <-done:
		require.NotNil(t, req)
		assert.Equal(t, "/index.html", req.URI)
	case <-time.After(2 * time.Second):
		t.Fatal("ParseRequestLine blocked on a partial header line")
	}
}
