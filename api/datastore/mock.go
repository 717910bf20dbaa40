package datastore

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shorty-cgi/shorty/api/datastore/internal/datastoreutil"
	"github.com/shorty-cgi/shorty/api/models"
)

type mock struct {
	mu         sync.Mutex
	URLs       []*models.ShortURL
	Quotations []*models.Quotation
	migrated   bool
}

// NewMock creates a new, migrated, empty mock datastore
func NewMock() models.Datastore {
	return NewMockInit()
}

var _ models.Datastore = &mock{}

// NewMockInit allows specifying certain short urls and quotations. args helps
// break tests less if we change stuff. Pass false to get a store that reports
// pending migrations until Migrate is called.
func NewMockInit(args ...interface{}) models.Datastore {
	mocker := mock{migrated: true}
	for _, a := range args {
		switch x := a.(type) {
		case []*models.ShortURL:
			mocker.URLs = x
		case []*models.Quotation:
			mocker.Quotations = x
		case bool:
			mocker.migrated = x
		default:
			panic("not accounted for data type sent to mock init. add it")
		}
	}
	return datastoreutil.NewValidator(&mocker)
}

func (m *mock) GetURL(ctx context.Context, name models.ShortURLName) (*models.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.URLs {
		if u.Name.Equal(name) {
			c := *u
			return &c, nil
		}
	}
	return nil, models.ErrShortURLNotFound
}

func (m *mock) sorted() []*models.ShortURL {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]*models.ShortURL, len(m.URLs))
	copy(urls, m.URLs)
	sort.Slice(urls, func(i, j int) bool { return urls[i].Name < urls[j].Name })
	return urls
}

func (m *mock) ForEachShortURL(ctx context.Context, fn func(*models.ShortURL) error) error {
	for _, u := range m.sorted() {
		c := *u
		if err := fn(&c); err != nil {
			return err
		}
	}
	return nil
}

func (m *mock) ForEachName(ctx context.Context, fn func(models.ShortURLName) error) error {
	for _, u := range m.sorted() {
		if err := fn(u.Name); err != nil {
			return err
		}
	}
	return nil
}

func (m *mock) InsertURL(ctx context.Context, name models.ShortURLName, url models.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.ShortURL{Name: name, URL: url, LastModified: time.Now().UTC().Truncate(time.Second)}
	for i, u := range m.URLs {
		if u.Name.Equal(name) {
			m.URLs[i] = s
			return nil
		}
	}
	m.URLs = append(m.URLs, s)
	return nil
}

func (m *mock) RandomQuote(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Quotations) == 0 {
		return "", models.ErrNoQuotations
	}
	return m.Quotations[rand.Intn(len(m.Quotations))].Quote, nil
}

func (m *mock) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *q
	if c.Collection == "" {
		c.Collection = models.DefaultCollection
	}
	for _, existing := range m.Quotations {
		if strings.EqualFold(existing.Collection, c.Collection) && existing.Quote == c.Quote {
			return models.ErrQuotationExists
		}
	}
	m.Quotations = append(m.Quotations, &c)
	return nil
}

func (m *mock) HasLatestSchema(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migrated, nil
}

func (m *mock) Migrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.migrated = true
	return nil
}

func (m *mock) MigrateDown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.migrated = false
	m.URLs = nil
	m.Quotations = nil
	return nil
}

func (m *mock) Close() error { return nil }
