package common

import (
	"io"
)

type clampWriter struct {
	w           io.Writer
	remaining   int64
	overflowErr error
}

// NewClampWriter passes at most maxSize bytes through to buf and fails with
// overflowErr once the limit is reached. A zero maxSize means no limit.
func NewClampWriter(buf io.Writer, maxSize uint64, overflowErr error) io.Writer {
	if maxSize != 0 {
		return &clampWriter{w: buf, remaining: int64(maxSize), overflowErr: overflowErr}
	}
	return buf
}

func (g *clampWriter) Write(p []byte) (int, error) {
	if g.remaining <= 0 {
		return 0, g.overflowErr
	}
	truncated := int64(len(p)) > g.remaining
	if truncated {
		p = p[0:g.remaining]
	}

	n, err := g.w.Write(p)
	g.remaining -= int64(n)
	if err == nil && truncated {
		err = g.overflowErr
	}
	return n, err
}
