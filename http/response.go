package httpx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

const (
	HTTP10 = "HTTP/1.0"
	HTTP11 = "HTTP/1.1"

	contentType = "text/html; charset=UTF-8"
	crlf        = "\r\n"
)

// Build failures. No part of a response is returned with any of them.
var (
	ErrNotFound   = errors.New("file not found")
	ErrStatFailed = errors.New("file stat failed")
	ErrReadFailed = errors.New("file read failed")
)

// Response is a framed HTTP response: header lines and the raw file body.
type Response struct {
	lines []string
	Body  []byte
}

// Lines returns the header lines without line terminators. The last line is
// the empty line that ends the header section.
func (r *Response) Lines() []string {
	return append([]string(nil), r.lines...)
}

// Header returns the header section with every line CRLF-terminated.
func (r *Response) Header() string {
	return strings.Join(r.lines, crlf) + crlf
}

// WriteTo writes the header followed by the body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Header())
	total := int64(n)
	if err != nil {
		return total, err
	}
	m, err := w.Write(r.Body)
	return total + int64(m), err
}

func headerLines(version, status string, length int64) []string {
	lines := []string{
		version + " " + status,
		"Content-Type: " + contentType,
		"Content-Length: " + strconv.FormatInt(length, 10),
	}
	if version == HTTP11 {
		lines = append(lines, "Connection: close")
	}
	return append(lines, "")
}

// Builder reads requested files from a billy filesystem.
type Builder struct {
	fs billy.Basic
}

// NewBuilder returns a Builder that opens request paths on fs.
func NewBuilder(fs billy.Basic) *Builder {
	return &Builder{fs: fs}
}

// NewRootBuilder returns a Builder confined to the document root. Paths and
// symlinks are resolved inside root, so nothing outside it can be served.
func NewRootBuilder(root string) (*Builder, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("document root %q: %w", root, err)
	}
	return NewBuilder(osfs.New(abs, osfs.WithBoundOS())), nil
}

var defaultBuilder = NewBuilder(osfs.Default)

// BuildResponse builds the response for uri, a path on the local filesystem
// relative to the working directory or absolute.
func BuildResponse(uri, version string) (*Response, error) {
	return defaultBuilder.Build(uri, version)
}

type statter interface {
	Stat() (os.FileInfo, error)
}

// Build opens uri, sizes it, and reads it whole. Either a complete response
// is returned or nothing is; the file is closed on every path.
func (b *Builder) Build(uri, version string) (*Response, error) {
	f, err := b.fs.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, uri, err)
	}
	defer f.Close()

	var fi os.FileInfo
	if s, ok := f.(statter); ok {
		fi, err = s.Stat()
	} else {
		fi, err = b.fs.Stat(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStatFailed, uri, err)
	}

	size := fi.Size()
	if size < 0 || uint64(size) > math.MaxInt {
		return nil, fmt.Errorf("%w: %s: size %d not addressable", ErrReadFailed, uri, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(f, body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, uri, err)
	}

	return &Response{
		lines: headerLines(version, "200 OK", size),
		Body:  body,
	}, nil
}
