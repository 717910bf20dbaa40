package common

import (
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetLogFormat switches the standard logger between text and json output.
func SetLogFormat(format string) {
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		logrus.WithFields(logrus.Fields{"format": format}).Warn("Unknown log format specified, using text. Possible options are json and text.")
	}

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		// show full timestamps
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func SetLogLevel(ll string) {
	if ll == "" {
		ll = "info"
	}

	logLevel, err := logrus.ParseLevel(ll)
	if err != nil {
		logrus.WithFields(logrus.Fields{"level": ll}).Warn("Could not parse log level, setting to INFO")
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// gin must never write to stdout, that is where the response goes.
	gin.DefaultWriter = logrus.StandardLogger().WriterLevel(logrus.DebugLevel)
	gin.DefaultErrorWriter = logrus.StandardLogger().WriterLevel(logrus.ErrorLevel)
	gin.SetMode(gin.ReleaseMode)
	if logLevel == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}
}

// SetLogDest points the standard logger at to, one of "stderr",
// file:///path, udp://host:port or tcp://host:port (syslog). stdout is not
// accepted. Anything unusable falls back to stderr.
func SetLogDest(to, prefix string) {
	logrus.SetOutput(os.Stderr)
	if to == "" || to == "stderr" {
		return
	}
	if to == "stdout" {
		logrus.Warn("stdout carries the CGI response, logging to stderr instead")
		return
	}

	// possible schemes: { udp, tcp, file }
	// file url must contain only a path, syslog must contain only a host[:port]
	parsed, err := url.Parse(to)
	if err == nil && parsed.Host == "" && parsed.Path == "" {
		logrus.WithFields(logrus.Fields{"to": to}).Warn("No scheme on logging url, adding udp://")
		to = "udp://" + to
		parsed, err = url.Parse(to)
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"to": to}).Error("could not parse logging URI, defaulting to stderr")
		return
	}

	if (parsed.Host == "" && parsed.Path == "") || (parsed.Host != "" && parsed.Path != "") {
		logrus.WithFields(logrus.Fields{"to": to, "uri": MaskPassword(parsed)}).Error("invalid logging location, defaulting to stderr")
		return
	}

	switch parsed.Scheme {
	case "udp", "tcp":
		if err := addSyslogHook(parsed, prefix); err != nil {
			logrus.WithFields(logrus.Fields{"to": to}).WithError(err).Error("unable to connect to syslog, defaulting to stderr")
			return
		}
		logrus.SetOutput(io.Discard)
	case "file":
		f, err := os.OpenFile(parsed.Path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"to": to, "path": parsed.Path}).Error("cannot open file, defaulting to stderr")
			return
		}
		logrus.SetOutput(f)
	default:
		logrus.WithFields(logrus.Fields{"scheme": parsed.Scheme, "to": to}).Error("unknown logging location scheme, defaulting to stderr")
	}
}

// MaskPassword returns a stringified URL without its password visible
func MaskPassword(u *url.URL) string {
	if u.User != nil {
		p, set := u.User.Password()
		if set {
			return strings.Replace(u.String(), p+"@", "***@", 1)
		}
	}
	return u.String()
}
