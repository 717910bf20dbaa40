//go:build windows || nacl || plan9

package common

import (
	"errors"
	"net/url"
)

func addSyslogHook(u *url.URL, tag string) error {
	return errors.New("syslog not supported on this system")
}
