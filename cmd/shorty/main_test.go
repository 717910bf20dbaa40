package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shorty-cgi/shorty/api/datastore"
	"github.com/shorty-cgi/shorty/api/models"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func shorty(args ...string) result {
	var stdout, stderr bytes.Buffer
	app := newShorty(&stdout, &stderr)
	err := app.Run(append([]string{"shorty"}, args...))
	return result{stdout.String(), stderr.String(), err}
}

func testDB(t *testing.T) string {
	t.Setenv("SHORTY_DB", "")
	path := filepath.Join(t.TempDir(), "test.db")
	if r := shorty("migrate", "--database", path); r.err != nil {
		t.Fatalf("migrate: %v", r.err)
	}
	return path
}

func TestMigrateCreatesDatabase(t *testing.T) {
	path := testDB(t)
	if r := shorty("migrate", "--database", path); r.err != nil {
		t.Fatalf("second migrate should be a no-op, got %v", r.err)
	}
}

func TestSetAndGet(t *testing.T) {
	path := testDB(t)

	r := shorty("set", "--database", path, "gh", "https://github.com")
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "url saved") {
		t.Fatalf("expected confirmation on stderr, got %q", r.stderr)
	}

	for _, name := range []string{"gh", "GH"} {
		r = shorty("get", "--database", path, name)
		if r.err != nil {
			t.Fatal(r.err)
		}
		if r.stdout != "https://github.com/\n" {
			t.Fatalf("get %s: unexpected output %q", name, r.stdout)
		}
	}

	r = shorty("get", "--database", path, "nope")
	if !errors.Is(r.err, models.ErrShortURLNotFound) {
		t.Fatalf("expected ErrShortURLNotFound, got %v", r.err)
	}
}

func TestSetValidation(t *testing.T) {
	path := testDB(t)

	for i, test := range []struct {
		args []string
		err  error
	}{
		{[]string{"x", "https://example.com"}, models.ErrInvalidShortURLName},
		{[]string{"bad name", "https://example.com"}, models.ErrInvalidShortURLName},
		{[]string{"ok", "ftp://example.com"}, models.ErrInvalidURL},
		{[]string{"ok", "https://user:pw@example.com"}, models.ErrInvalidURL},
		{[]string{"ok", "/relative"}, models.ErrInvalidURL},
	} {
		r := shorty(append([]string{"set", "--database", path}, test.args...)...)
		if !errors.Is(r.err, test.err) {
			t.Errorf("Test %d: expected %v, got %v", i, test.err, r.err)
		}
	}

	r := shorty("set", "--database", path, "ok")
	if r.err == nil || !strings.Contains(r.err.Error(), "Missing required arguments: <url>") {
		t.Fatalf("expected a missing argument error, got %v", r.err)
	}
}

func TestSetRequiresMigrations(t *testing.T) {
	t.Setenv("SHORTY_DB", "")
	path := filepath.Join(t.TempDir(), "fresh.db")
	r := shorty("set", "--database", path, "gh", "https://github.com")
	if !errors.Is(r.err, models.ErrMigrationsNeeded) {
		t.Fatalf("expected ErrMigrationsNeeded, got %v", r.err)
	}
}

func TestDatabaseFromEnvironment(t *testing.T) {
	path := testDB(t)
	t.Setenv("SHORTY_DB", path)

	if r := shorty("set", "gh", "https://github.com"); r.err != nil {
		t.Fatal(r.err)
	}
	if r := shorty("list"); r.err != nil || r.stdout != "gh\n" {
		t.Fatalf("unexpected list %q %v", r.stdout, r.err)
	}

	t.Setenv("SHORTY_DB", "")
	if r := shorty("list"); !errors.Is(r.err, errNoDatabase) {
		t.Fatalf("expected errNoDatabase, got %v", r.err)
	}
}

func TestListAndExport(t *testing.T) {
	path := testDB(t)
	for _, args := range [][]string{
		{"cc", "https://c.example.com/x?y=1"},
		{"aa", "https://a.example.com"},
		{"bb", `https://b.example.com/"quoted",comma`},
	} {
		if r := shorty(append([]string{"set", "--database", path}, args...)...); r.err != nil {
			t.Fatal(r.err)
		}
	}

	r := shorty("list", "--database", path)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.stdout != "aa\nbb\ncc\n" {
		t.Fatalf("unexpected list %q", r.stdout)
	}

	r = shorty("export", "--database", path)
	if r.err != nil {
		t.Fatal(r.err)
	}
	lines := strings.Split(r.stdout, "\r\n")
	if len(lines) != 5 || lines[4] != "" {
		t.Fatalf("expected a header, three CRLF terminated rows, got %q", r.stdout)
	}
	if lines[0] != "shorturl,url,last_modified" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "aa,https://a.example.com/,") {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], `bb,"https://b.example.com/%22quoted%22,comma",`) {
		t.Fatalf("expected the comma to be quoted, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "cc,https://c.example.com/x?y=1,") {
		t.Fatalf("unexpected row %q", lines[3])
	}
}

func TestQuoteAdd(t *testing.T) {
	path := testDB(t)

	r := shorty("quote", "add", "--database", path, "Simple is better")
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "quotation added") {
		t.Fatalf("expected confirmation on stderr, got %q", r.stderr)
	}

	r = shorty("quote", "add", "--database", path, "Simple is better")
	if !errors.Is(r.err, models.ErrQuotationExists) {
		t.Fatalf("expected ErrQuotationExists, got %v", r.err)
	}
	if r = shorty("quote", "add", "--database", path, "--collection", "zen", "Simple is better"); r.err != nil {
		t.Fatalf("the same quote in another collection should be accepted, got %v", r.err)
	}

	r = shorty("quote", "add", "--database", path, "")
	if !errors.Is(r.err, models.ErrInvalidQuotation) {
		t.Fatalf("expected ErrInvalidQuotation, got %v", r.err)
	}

	r = shorty("quote", "add", "--database", path)
	if r.err == nil || !strings.Contains(r.err.Error(), "Missing required arguments: <quote>") {
		t.Fatalf("expected a missing argument error, got %v", r.err)
	}

	ctx := context.Background()
	dbURL, err := datastore.URLFromPath(path, true)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := datastore.New(ctx, dbURL)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	quote, err := ds.RandomQuote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if quote != "Simple is better" {
		t.Fatalf("unexpected quote %q", quote)
	}
}

func TestMigrateDown(t *testing.T) {
	path := testDB(t)
	if r := shorty("set", "--database", path, "gh", "https://github.com"); r.err != nil {
		t.Fatal(r.err)
	}

	r := shorty("migrate", "--down", "--database", path)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "migrated down") {
		t.Fatalf("expected confirmation on stderr, got %q", r.stderr)
	}

	r = shorty("set", "--database", path, "gh", "https://github.com")
	if !errors.Is(r.err, models.ErrMigrationsNeeded) {
		t.Fatalf("expected ErrMigrationsNeeded, got %v", r.err)
	}
}
