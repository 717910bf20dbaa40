package datastore

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/datastore/internal/datastoreutil"
	"github.com/shorty-cgi/shorty/api/datastore/sql"
	"github.com/shorty-cgi/shorty/api/datastore/sql/dbhelper"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/sirupsen/logrus"
)

// New creates a DataStore from the specified URL
func New(ctx context.Context, dbURL string) (models.Datastore, error) {
	log := common.Logger(ctx)
	u, err := parseURL(dbURL)
	if err != nil {
		return nil, fmt.Errorf("bad DB URL: %w", err)
	}
	log.WithFields(logrus.Fields{"db": u.Scheme}).Debug("creating new datastore")

	if _, ok := dbhelper.GetHelper(u.Scheme); !ok {
		return nil, fmt.Errorf("db type not supported %v", u.Scheme)
	}
	ds, err := sql.New(ctx, u)
	if err != nil {
		return nil, err
	}
	return Wrap(ds), nil
}

// go-sql-driver DSNs like mysql://user:pw@tcp(host:3306)/db do not survive
// url.Parse, they are kept opaque.
func parseURL(dbURL string) (*url.URL, error) {
	if rest, ok := strings.CutPrefix(dbURL, "mysql://"); ok {
		return &url.URL{Scheme: "mysql", Opaque: rest}, nil
	}
	return url.Parse(dbURL)
}

// Wrap adds argument validation and timing around ds.
func Wrap(ds models.Datastore) models.Datastore {
	return datastoreutil.MetricDS(datastoreutil.NewValidator(ds))
}

// URLFromPath turns a plain sqlite file path into a datastore url. Anything
// that already looks like a url is returned as is.
func URLFromPath(path string, readOnly bool) (string, error) {
	if strings.Contains(path, "://") {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "sqlite3", Path: filepath.ToSlash(abs)}
	if readOnly {
		u.RawQuery = "mode=ro"
	}
	return u.String(), nil
}
