package datastoreutil

import (
	"context"
	"time"

	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/models"
)

// MetricDS times every call into ds.
func MetricDS(ds models.Datastore) models.Datastore {
	return &metricds{ds}
}

type metricds struct {
	ds models.Datastore
}

func observe(op string) func() {
	start := time.Now()
	return func() {
		common.DatastoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (m *metricds) GetURL(ctx context.Context, name models.ShortURLName) (*models.ShortURL, error) {
	defer observe("get_url")()
	return m.ds.GetURL(ctx, name)
}

func (m *metricds) ForEachShortURL(ctx context.Context, fn func(*models.ShortURL) error) error {
	defer observe("for_each_short_url")()
	return m.ds.ForEachShortURL(ctx, fn)
}

func (m *metricds) ForEachName(ctx context.Context, fn func(models.ShortURLName) error) error {
	defer observe("for_each_name")()
	return m.ds.ForEachName(ctx, fn)
}

func (m *metricds) InsertURL(ctx context.Context, name models.ShortURLName, url models.URL) error {
	defer observe("insert_url")()
	return m.ds.InsertURL(ctx, name, url)
}

func (m *metricds) RandomQuote(ctx context.Context) (string, error) {
	defer observe("random_quote")()
	return m.ds.RandomQuote(ctx)
}

func (m *metricds) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	defer observe("insert_quotation")()
	return m.ds.InsertQuotation(ctx, q)
}

func (m *metricds) HasLatestSchema(ctx context.Context) (bool, error) {
	defer observe("has_latest_schema")()
	return m.ds.HasLatestSchema(ctx)
}

func (m *metricds) Migrate(ctx context.Context) error {
	defer observe("migrate")()
	return m.ds.Migrate(ctx)
}

func (m *metricds) MigrateDown(ctx context.Context) error {
	defer observe("migrate_down")()
	return m.ds.MigrateDown(ctx)
}

func (m *metricds) Close() error {
	return m.ds.Close()
}
