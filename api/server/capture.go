package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/common"
)

var errBodyTooLarge = errors.New("response body exceeds the configured limit")

// captureWriter is the http.ResponseWriter handed to gin. It keeps the
// response in memory so it can be serialized as a single CGI response.
type captureWriter struct {
	header   http.Header
	status   int
	body     bytes.Buffer
	w        io.Writer
	overflow bool
}

func newCaptureWriter(maxBody uint64) *captureWriter {
	cw := &captureWriter{header: make(http.Header)}
	cw.w = common.NewClampWriter(&cw.body, maxBody, errBodyTooLarge)
	return cw
}

func (cw *captureWriter) Header() http.Header { return cw.header }

func (cw *captureWriter) WriteHeader(code int) {
	if cw.status == 0 {
		cw.status = code
	}
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	n, err := cw.w.Write(p)
	if errors.Is(err, errBodyTooLarge) {
		cw.overflow = true
	}
	return n, err
}

func (cw *captureWriter) response() *cgi.Response {
	if cw.overflow {
		return cgi.TextResponse(http.StatusInternalServerError, errBodyTooLarge.Error()+"\n")
	}
	status := cw.status
	if status == 0 {
		status = http.StatusOK
	}
	return &cgi.Response{StatusCode: status, Header: cw.header, Body: cw.body.Bytes()}
}
