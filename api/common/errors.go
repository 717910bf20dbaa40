package common

import (
	"errors"
	"io"
	"net"
	"syscall"
)

type Temporary interface {
	Temporary() bool
}

// IsTemporary reports whether err is worth retrying: network failures,
// refused connections and truncated reads.
func IsTemporary(err error) bool {
	var v Temporary
	if errors.As(err, &v) && v.Temporary() {
		return true
	}
	return isNet(err)
}

func isNet(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
