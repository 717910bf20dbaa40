package datastoretest

import (
	"context"
	"errors"
	"testing"

	"github.com/shorty-cgi/shorty/api/models"
)

// Test runs the behaviour every models.Datastore must share against a fresh,
// migrated store from newDS.
func Test(t *testing.T, newDS func(t *testing.T) models.Datastore) {
	ctx := context.Background()

	name := func(s string) models.ShortURLName {
		n, err := models.NewShortURLName(s)
		if err != nil {
			t.Fatal(err)
		}
		return n
	}
	target := func(s string) models.URL {
		u, err := models.ParseURL(s)
		if err != nil {
			t.Fatal(err)
		}
		return u
	}

	t.Run("get-missing", func(t *testing.T) {
		ds := newDS(t)
		_, err := ds.GetURL(ctx, name("missing"))
		if !errors.Is(err, models.ErrShortURLNotFound) {
			t.Fatalf("expected ErrShortURLNotFound, got %v", err)
		}
	})

	t.Run("insert-get-case-insensitive", func(t *testing.T) {
		ds := newDS(t)
		if err := ds.InsertURL(ctx, name("Wiki"), target("https://en.wikipedia.org/wiki/CGI")); err != nil {
			t.Fatal(err)
		}
		s, err := ds.GetURL(ctx, name("wIKI"))
		if err != nil {
			t.Fatal(err)
		}
		if s.URL.String() != "https://en.wikipedia.org/wiki/CGI" {
			t.Fatalf("unexpected url %s", s.URL)
		}
		if s.LastModified.IsZero() {
			t.Fatal("expected a modification time on insert")
		}
	})

	t.Run("insert-replaces", func(t *testing.T) {
		ds := newDS(t)
		if err := ds.InsertURL(ctx, name("dup"), target("http://one.example.com")); err != nil {
			t.Fatal(err)
		}
		if err := ds.InsertURL(ctx, name("DUP"), target("http://two.example.com")); err != nil {
			t.Fatal(err)
		}
		count := 0
		err := ds.ForEachName(ctx, func(models.ShortURLName) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Fatalf("expected 1 name after replace, got %d", count)
		}
		s, err := ds.GetURL(ctx, name("dup"))
		if err != nil {
			t.Fatal(err)
		}
		if s.URL.String() != "http://two.example.com/" {
			t.Fatalf("expected replaced url, got %s", s.URL)
		}
	})

	t.Run("invalid-arguments", func(t *testing.T) {
		ds := newDS(t)
		if err := ds.InsertURL(ctx, models.ShortURLName("x"), target("https://example.com")); !errors.Is(err, models.ErrInvalidShortURLName) {
			t.Fatalf("expected ErrInvalidShortURLName, got %v", err)
		}
		if err := ds.InsertURL(ctx, name("ok"), models.URL{}); !errors.Is(err, models.ErrInvalidURL) {
			t.Fatalf("expected ErrInvalidURL, got %v", err)
		}
		if err := ds.InsertQuotation(ctx, &models.Quotation{}); !errors.Is(err, models.ErrInvalidQuotation) {
			t.Fatalf("expected ErrInvalidQuotation, got %v", err)
		}
	})

	t.Run("quotations", func(t *testing.T) {
		ds := newDS(t)
		if _, err := ds.RandomQuote(ctx); !errors.Is(err, models.ErrNoQuotations) {
			t.Fatalf("expected ErrNoQuotations, got %v", err)
		}
		q := &models.Quotation{Quote: "Errors are values."}
		if err := ds.InsertQuotation(ctx, q); err != nil {
			t.Fatal(err)
		}
		if err := ds.InsertQuotation(ctx, q); !errors.Is(err, models.ErrQuotationExists) {
			t.Fatalf("expected ErrQuotationExists, got %v", err)
		}
		quote, err := ds.RandomQuote(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if quote != q.Quote {
			t.Fatalf("unexpected quote %q", quote)
		}
	})

	t.Run("schema", func(t *testing.T) {
		ds := newDS(t)
		ok, err := ds.HasLatestSchema(ctx)
		if err != nil || !ok {
			t.Fatalf("expected a migrated store, got %v %v", ok, err)
		}
	})
}
