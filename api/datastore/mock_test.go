package datastore

import (
	"context"
	"testing"

	"github.com/shorty-cgi/shorty/api/datastore/internal/datastoretest"
	"github.com/shorty-cgi/shorty/api/models"
)

func TestDatastore(t *testing.T) {
	datastoretest.Test(t, func(*testing.T) models.Datastore {
		return NewMock()
	})
}

func TestMockPendingMigrations(t *testing.T) {
	ctx := context.Background()
	ds := NewMockInit(false)
	if ok, _ := ds.HasLatestSchema(ctx); ok {
		t.Fatal("expected pending migrations")
	}
	if err := ds.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if ok, _ := ds.HasLatestSchema(ctx); !ok {
		t.Fatal("expected migrated store")
	}
}

func TestMockMigrateDown(t *testing.T) {
	ctx := context.Background()
	ds := NewMockInit([]*models.Quotation{{Quote: "q"}})
	if err := ds.MigrateDown(ctx); err != nil {
		t.Fatal(err)
	}
	if ok, _ := ds.HasLatestSchema(ctx); ok {
		t.Fatal("expected pending migrations")
	}
	if _, err := ds.RandomQuote(ctx); err != models.ErrNoQuotations {
		t.Fatalf("expected no quotations, got %v", err)
	}
}
