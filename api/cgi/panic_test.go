package cgi

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panicThrough(g *PanicGuard, v interface{}) (recovered interface{}) {
	defer func() { recovered = recover() }()
	defer g.Recover()
	panic(v)
}

func TestPanicGuard(t *testing.T) {
	var buf bytes.Buffer
	g := &PanicGuard{out: &buf}

	// the guard panics again with the original value
	assert.Equal(t, "boom", panicThrough(g, "boom"))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Status: 500 Internal Server Error\r\n"), out)

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader("HTTP/1.1 "+strings.TrimPrefix(out, "Status: "))), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), resp.ContentLength)
	assert.True(t, strings.HasPrefix(string(body), "panic occurred: boom\n\n"), string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestPanicGuardWritesOnce(t *testing.T) {
	var buf bytes.Buffer
	g := &PanicGuard{out: &buf}

	panicThrough(g, "first")
	n := buf.Len()
	panicThrough(g, "second")

	assert.Equal(t, n, buf.Len())
	assert.NotContains(t, buf.String(), "second")
}

func TestPanicGuardWithoutPanic(t *testing.T) {
	var buf bytes.Buffer
	g := &PanicGuard{out: &buf}

	func() {
		defer g.Recover()
	}()
	assert.Zero(t, buf.Len())
}

func TestInstallPanicGuard(t *testing.T) {
	var a, b bytes.Buffer
	g := InstallPanicGuard(&a)
	assert.Same(t, g, InstallPanicGuard(&b))

	panicThrough(g, "installed")
	assert.Contains(t, a.String(), "installed")
	assert.Zero(t, b.Len())
}
