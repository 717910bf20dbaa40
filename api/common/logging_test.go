package common

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMaskPassword(t *testing.T) {
	u, _ := url.Parse("postgres://shorty:hunter2@db:5432/shorty?sslmode=disable")
	masked := MaskPassword(u)
	if strings.Contains(masked, "hunter2") {
		t.Fatalf("password leaked: %s", masked)
	}
	if !strings.Contains(masked, "shorty:***@db") {
		t.Fatalf("unexpected mask: %s", masked)
	}

	u, _ = url.Parse("sqlite3:///var/lib/shorty/shorty.db")
	if got := MaskPassword(u); got != u.String() {
		t.Fatalf("url without password changed: %s", got)
	}
}

func TestSetLogDestNeverStdout(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	SetLogDest("stdout", "shorty")
	if logrus.StandardLogger().Out != os.Stderr {
		t.Fatal("expected stdout to be refused in favour of stderr")
	}
}

func TestSetLogDestFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "shorty.log")
	SetLogDest("file://"+path, "shorty")
	logrus.Error("written to file")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "written to file") {
		t.Fatalf("log line missing from %s: %q", path, b)
	}
}

func TestSetLogLevelFallsBackToInfo(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	SetLogLevel("chatty")
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info, got %v", logrus.GetLevel())
	}
	SetLogLevel("debug")
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug, got %v", logrus.GetLevel())
	}
}
