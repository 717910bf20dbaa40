package common

import (
	"bytes"
	"errors"
	"testing"
)

var errOverflow = errors.New("overflow")

func TestClampWriterUnlimited(t *testing.T) {
	var buf bytes.Buffer
	w := NewClampWriter(&buf, 0, errOverflow)
	if _, err := w.Write(bytes.Repeat([]byte("a"), 4096)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4096 {
		t.Fatalf("expected 4096 bytes, got %d", buf.Len())
	}
}

func TestClampWriterExactFit(t *testing.T) {
	var buf bytes.Buffer
	w := NewClampWriter(&buf, 5, errOverflow)
	n, err := w.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("expected 5 bytes and no error, got %d %v", n, err)
	}
	if _, err := w.Write([]byte("!")); err != errOverflow {
		t.Fatalf("expected overflow on the next write, got %v", err)
	}
}

func TestClampWriterTruncates(t *testing.T) {
	var buf bytes.Buffer
	w := NewClampWriter(&buf, 3, errOverflow)
	n, err := w.Write([]byte("hello"))
	if err != errOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
	if n != 3 || buf.String() != "hel" {
		t.Fatalf("expected 3 bytes 'hel', got %d %q", n, buf.String())
	}
}
