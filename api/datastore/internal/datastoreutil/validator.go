package datastoreutil

import (
	"context"

	"github.com/shorty-cgi/shorty/api/models"
)

// NewValidator returns a models.Datastore which validates certain arguments
// before delegating to ds, so implementations can rely on:
//   - names being valid short url names
//   - urls having been parsed
//   - quotations being non-nil with a non-empty quote
func NewValidator(ds models.Datastore) models.Datastore {
	return &validator{ds}
}

type validator struct {
	models.Datastore
}

func (v *validator) GetURL(ctx context.Context, name models.ShortURLName) (*models.ShortURL, error) {
	if _, err := models.NewShortURLName(string(name)); err != nil {
		return nil, err
	}
	return v.Datastore.GetURL(ctx, name)
}

func (v *validator) InsertURL(ctx context.Context, name models.ShortURLName, url models.URL) error {
	if _, err := models.NewShortURLName(string(name)); err != nil {
		return err
	}
	if url.URL() == nil {
		return models.ErrInvalidURL
	}
	return v.Datastore.InsertURL(ctx, name, url)
}

func (v *validator) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	if q == nil || q.Quote == "" {
		return models.ErrInvalidQuotation
	}
	return v.Datastore.InsertQuotation(ctx, q)
}
