package cgi

import (
	"bufio"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// Response is what a controller hands back to be written to the web server.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse returns a response with an empty header set.
func NewResponse(code int, contentType string, body []byte) *Response {
	r := &Response{StatusCode: code, Header: make(http.Header), Body: body}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

// HTMLResponse is a text/html response.
func HTMLResponse(code int, body string) *Response {
	return NewResponse(code, "text/html; charset=utf-8", []byte(body))
}

// TextResponse is a text/plain response.
func TextResponse(code int, body string) *Response {
	return NewResponse(code, "text/plain; charset=utf-8", []byte(body))
}

// Serializer writes responses in the CGI response format.
type Serializer struct {
	// Now is the clock used for the Date header.
	Now func() time.Time
	// MaxContentLength is the largest body that gets a Content-Length.
	MaxContentLength uint64
}

// DefaultSerializer uses the wall clock.
var DefaultSerializer = &Serializer{Now: time.Now, MaxContentLength: math.MaxInt64}

// Serialize writes resp to w with the DefaultSerializer.
func Serialize(resp *Response, w io.Writer) error {
	return DefaultSerializer.Serialize(resp, w)
}

// Serialize writes the status line, headers, blank line and body of resp to
// w and flushes. resp itself is left untouched.
func (s *Serializer) Serialize(resp *Response, w io.Writer) error {
	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	noBody := isBodyless(resp.StatusCode)

	if !noBody && (resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound) {
		if _, ok := lookupHeader(header, "ETag"); !ok {
			header["ETag"] = []string{ContentETag(resp.Body)}
		}
	}

	setHeader(header, "Date", s.now().UTC().Format(http.TimeFormat))
	if noBody {
		deleteHeader(header, "Content-Length")
	} else {
		n := uint64(len(resp.Body))
		if n > s.maxContentLength() {
			return ErrContentTooLarge
		}
		setHeader(header, "Content-Length", strconv.FormatUint(n, 10))
	}

	names := make([]string, 0, len(header))
	for name, values := range header {
		if !httpguts.ValidHeaderFieldName(name) {
			return &HeaderError{Name: name}
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return &HeaderError{Name: name, Value: v}
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	bw := bufio.NewWriter(w)
	writeStatusLine(bw, resp.StatusCode)
	for _, name := range names {
		for _, v := range header[name] {
			bw.WriteString(name)
			bw.WriteString(": ")
			bw.WriteString(v)
			bw.WriteString("\r\n")
		}
	}
	bw.WriteString("\r\n")
	if !noBody {
		bw.Write(resp.Body)
	}
	// bufio keeps the first error, Flush reports it.
	if err := bw.Flush(); err != nil {
		return ioErr(err)
	}
	return nil
}

func (s *Serializer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Serializer) maxContentLength() uint64 {
	if s.MaxContentLength == 0 {
		return math.MaxInt64
	}
	return s.MaxContentLength
}

func isBodyless(code int) bool {
	return code == http.StatusNoContent || code == http.StatusNotModified
}

func writeStatusLine(w *bufio.Writer, code int) {
	w.WriteString("Status: ")
	w.WriteString(strconv.Itoa(code))
	if text := http.StatusText(code); text != "" {
		w.WriteByte(' ')
		w.WriteString(text)
	}
	w.WriteString("\r\n")
}

// header names coming from controllers are not necessarily canonical, so
// lookups here ignore case.

func lookupHeader(h http.Header, name string) (string, bool) {
	for k, v := range h {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

func deleteHeader(h http.Header, name string) {
	for k := range h {
		if strings.EqualFold(k, name) {
			delete(h, k)
		}
	}
}

func setHeader(h http.Header, name, value string) {
	deleteHeader(h, name)
	h.Set(name, value)
}
