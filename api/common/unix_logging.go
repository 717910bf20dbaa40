//go:build !windows && !nacl && !plan9

package common

import (
	"net/url"

	"github.com/sirupsen/logrus"
	logrus_syslog "github.com/sirupsen/logrus/hooks/syslog"
)

// addSyslogHook sends the standard logger's entries to the syslog daemon at u
// with the given tag.
func addSyslogHook(u *url.URL, tag string) error {
	hook, err := logrus_syslog.NewSyslogHook(u.Scheme, u.Host, 0, tag)
	if err != nil {
		return err
	}
	logrus.AddHook(hook)
	return nil
}
