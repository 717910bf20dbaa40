package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	if err := os.WriteFile(path, []byte("sqlite3:///tmp/shorty.db\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHORTY_TEST_DB_FILE", path)

	if got := GetEnv("SHORTY_TEST_DB", "fallback"); got != "sqlite3:///tmp/shorty.db" {
		t.Fatalf("expected value from file, got %q", got)
	}

	t.Setenv("SHORTY_TEST_DB", "direct")
	if got := GetEnv("SHORTY_TEST_DB", "fallback"); got != "direct" {
		t.Fatalf("expected direct value to win, got %q", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SHORTY_TEST_DEBUG", "true")
	if !GetEnvBool("SHORTY_TEST_DEBUG", false) {
		t.Fatal("expected true")
	}
	t.Setenv("SHORTY_TEST_DEBUG", "maybe")
	if GetEnvBool("SHORTY_TEST_DEBUG", false) {
		t.Fatal("expected fallback for unparseable value")
	}
	if !GetEnvBool("SHORTY_TEST_UNSET", true) {
		t.Fatal("expected fallback for unset value")
	}
}
