package models

import (
	"context"
)

type Datastore interface {
	// GetURL looks up a short URL by name, ignoring case.
	// Returns ErrShortURLNotFound if there is none.
	GetURL(ctx context.Context, name ShortURLName) (*ShortURL, error)

	// ForEachShortURL calls fn for every short URL. Iteration stops at the
	// first error, which is returned.
	ForEachShortURL(ctx context.Context, fn func(*ShortURL) error) error

	// ForEachName calls fn with the name of every short URL.
	ForEachName(ctx context.Context, fn func(ShortURLName) error) error

	// InsertURL creates or replaces the short URL called name and stamps its
	// modification time.
	InsertURL(ctx context.Context, name ShortURLName, url URL) error

	// RandomQuote returns a random quotation.
	// Returns ErrNoQuotations if there are none.
	RandomQuote(ctx context.Context) (string, error)

	// InsertQuotation adds a quotation to the collection.
	InsertQuotation(ctx context.Context, q *Quotation) error

	// HasLatestSchema reports whether every migration has been applied.
	HasLatestSchema(ctx context.Context) (bool, error)

	// Migrate applies pending migrations.
	Migrate(ctx context.Context) error

	// MigrateDown unwinds every applied migration, dropping all data.
	MigrateDown(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
