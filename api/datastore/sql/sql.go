package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/datastore/sql/dbhelper"
	"github.com/shorty-cgi/shorty/api/datastore/sql/migratex"
	"github.com/shorty-cgi/shorty/api/datastore/sql/migrations"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/sirupsen/logrus"
)

// this aims to be an ANSI-SQL compliant package that uses only question
// mark syntax for var placement, leaning on sqlx to make compatible all
// queries to the actual underlying datastore.
//
// currently tested and working are postgres, mysql and sqlite3.

const (
	urlSelector  = `SELECT short_url, url, last_modified FROM urls`
	nameSelector = `SELECT short_url FROM urls`
)

var pingBackOff = common.BackOffConfig{
	MaxRetries: 3,
	Interval:   100 * time.Millisecond,
	MaxDelay:   time.Second,
}

type sqlStore struct {
	db     *sqlx.DB
	helper dbhelper.Helper
	// now stamps last_modified on writes
	now func() time.Time
}

type urlRow struct {
	ShortURL     string `db:"short_url"`
	URL          string `db:"url"`
	LastModified int64  `db:"last_modified"`
}

func (r *urlRow) model() (*models.ShortURL, error) {
	u, err := models.ParseURL(r.URL)
	if err != nil {
		return nil, fmt.Errorf("stored url for %q: %w", r.ShortURL, err)
	}
	s := &models.ShortURL{Name: models.ShortURLName(r.ShortURL), URL: u}
	if r.LastModified > 0 {
		s.LastModified = time.Unix(r.LastModified, 0).UTC()
	}
	return s, nil
}

// New opens the db specified by url and returns a models.Datastore safe for
// concurrent usage. It does not migrate, see Migrate and HasLatestSchema.
func New(ctx context.Context, url *url.URL) (models.Datastore, error) {
	return newDS(ctx, url)
}

// for test methods, return concrete type, but don't expose
func newDS(ctx context.Context, url *url.URL) (*sqlStore, error) {
	log := common.Logger(ctx)

	helper, ok := dbhelper.GetHelper(url.Scheme)
	if !ok {
		return nil, fmt.Errorf("db type not supported %v", url.Scheme)
	}

	uri, err := helper.PreInit(url)
	if err != nil {
		return nil, err
	}

	driver := helper.DriverName()
	sqldb, err := sql.Open(driver, uri)
	if err != nil {
		log.WithFields(logrus.Fields{"url": common.MaskPassword(url)}).WithError(err).Error("couldn't open db")
		return nil, err
	}

	db := sqlx.NewDb(sqldb, driver)
	// force a connection and test that it worked
	err = pingWithRetry(ctx, pingBackOff, db)
	if err != nil {
		log.WithFields(logrus.Fields{"url": common.MaskPassword(url)}).WithError(err).Error("couldn't ping db")
		db.Close()
		return nil, err
	}

	if db, err = helper.PostCreate(db); err != nil {
		sqldb.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{"datastore": helper.String()}).Debug("datastore dialed")

	return &sqlStore{db: db, helper: helper, now: time.Now}, nil
}

// pingWithRetry retries temporary (network) failures only, a missing sqlite
// file fails on the first attempt.
func pingWithRetry(ctx context.Context, cfg common.BackOffConfig, db *sqlx.DB) error {
	b := common.NewBackOff(cfg)
	for {
		err := db.PingContext(ctx)
		if err == nil || !common.IsTemporary(err) {
			return err
		}
		delay, ok := b.NextBackOff()
		if !ok {
			return err
		}
		common.Logger(ctx).WithError(err).WithFields(logrus.Fields{"delay": delay}).Debug("db ping failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (ds *sqlStore) HasLatestSchema(ctx context.Context) (bool, error) {
	pending, err := migratex.Pending(ctx, ds.db, migrations.Migrations)
	if err != nil {
		return false, err
	}
	return len(pending) == 0, nil
}

func (ds *sqlStore) Migrate(ctx context.Context) error {
	return migratex.Up(ctx, ds.db, migrations.Migrations)
}

func (ds *sqlStore) MigrateDown(ctx context.Context) error {
	return migratex.Down(ctx, ds.db, migrations.Migrations)
}

// clear is for tests only, be careful, it deletes all records.
func (ds *sqlStore) clear() error {
	return ds.Tx(context.Background(), func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`DELETE FROM urls`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM quotations`)
		return err
	})
}

func (ds *sqlStore) GetURL(ctx context.Context, name models.ShortURLName) (*models.ShortURL, error) {
	var row urlRow
	query := ds.db.Rebind(urlSelector + ` WHERE LOWER(short_url) = LOWER(?) LIMIT 1`)
	err := ds.db.QueryRowxContext(ctx, query, string(name)).StructScan(&row)
	if err == sql.ErrNoRows {
		return nil, models.ErrShortURLNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.model()
}

// ForEachShortURL streams rows; fn must not call back into the store since
// sqlite runs on a single connection.
func (ds *sqlStore) ForEachShortURL(ctx context.Context, fn func(*models.ShortURL) error) error {
	rows, err := ds.db.QueryxContext(ctx, urlSelector+` ORDER BY short_url`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row urlRow
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		s, err := row.model()
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (ds *sqlStore) ForEachName(ctx context.Context, fn func(models.ShortURLName) error) error {
	rows, err := ds.db.QueryxContext(ctx, nameSelector+` ORDER BY short_url`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if err := fn(models.ShortURLName(name)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (ds *sqlStore) InsertURL(ctx context.Context, name models.ShortURLName, u models.URL) error {
	lastModified := ds.now().Unix()
	update := func(tx *sqlx.Tx) (int64, error) {
		query := tx.Rebind(`UPDATE urls SET short_url=?, url=?, last_modified=? WHERE LOWER(short_url) = LOWER(?)`)
		res, err := tx.ExecContext(ctx, query, string(name), u.String(), lastModified, string(name))
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	return ds.Tx(ctx, func(tx *sqlx.Tx) error {
		n, err := update(tx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		query := tx.Rebind(`INSERT INTO urls (short_url, url, last_modified) VALUES (?, ?, ?)`)
		_, err = tx.ExecContext(ctx, query, string(name), u.String(), lastModified)
		if err != nil && ds.helper.IsDuplicateKeyError(err) {
			// mysql reports 0 affected rows for an update that changes nothing
			_, err = update(tx)
		}
		return err
	})
}

func (ds *sqlStore) RandomQuote(ctx context.Context) (string, error) {
	var quote string
	query := ds.db.Rebind(`SELECT quote FROM quotations ORDER BY ` + ds.helper.RandomFunc() + ` LIMIT 1`)
	err := ds.db.QueryRowContext(ctx, query).Scan(&quote)
	if err == sql.ErrNoRows {
		return "", models.ErrNoQuotations
	}
	if err != nil {
		return "", err
	}
	return quote, nil
}

func (ds *sqlStore) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	quotation := *q
	if quotation.Collection == "" {
		quotation.Collection = models.DefaultCollection
	}

	return ds.Tx(ctx, func(tx *sqlx.Tx) error {
		var count int
		query := tx.Rebind(`SELECT count(*) FROM quotations WHERE collection=? AND quote=?`)
		if err := tx.QueryRowContext(ctx, query, quotation.Collection, quotation.Quote).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return models.ErrQuotationExists
		}

		_, err := tx.NamedExecContext(ctx, `INSERT INTO quotations (collection, quote) VALUES (:collection, :quote)`, quotation)
		return err
	})
}

func (ds *sqlStore) Tx(ctx context.Context, f func(*sqlx.Tx) error) error {
	tx, err := ds.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (ds *sqlStore) Close() error {
	return ds.db.Close()
}
