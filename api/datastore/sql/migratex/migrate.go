package migratex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shorty-cgi/shorty/api/datastore/sql/dbhelper"
	"github.com/sirupsen/logrus"
)

var (
	// MigrationsTable holds the single (version, dirty) row.
	MigrationsTable = "schema_migrations"

	ErrLocked = errors.New("database is locked")
)

func migrateErr(version int64, up bool, err error) ErrMigration {
	dir := "up"
	if !up {
		dir = "down"
		version++
	}
	return ErrMigration(fmt.Sprintf("error running migration. version: %v direction: %v err: %v", version, dir, err))
}

// ErrMigration represents an error running a specific migration in a specific direction
type ErrMigration string

func (e ErrMigration) Error() string { return string(e) }

func dirtyErr(version int64) ErrDirty {
	return ErrDirty(fmt.Sprintf("database is dirty. version: %v", version))
}

// ErrDirty is an error that is returned when a db is dirty.
type ErrDirty string

func (e ErrDirty) Error() string { return string(e) }

const (
	NilVersion = -1
)

type Migration interface {
	Up(context.Context, *sqlx.Tx) error
	Down(context.Context, *sqlx.Tx) error
	Version() int64
}

type sorted []Migration

func (s sorted) Len() int           { return len(s) }
func (s sorted) Less(i, j int) bool { return s[i].Version() < s[j].Version() }
func (s sorted) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

var _ Migration = new(MigFields)

// MigFields implements Migration and can be used for convenience.
type MigFields struct {
	UpFunc      func(context.Context, *sqlx.Tx) error
	DownFunc    func(context.Context, *sqlx.Tx) error
	VersionFunc func() int64
}

func (m MigFields) Up(ctx context.Context, tx *sqlx.Tx) error   { return m.UpFunc(ctx, tx) }
func (m MigFields) Down(ctx context.Context, tx *sqlx.Tx) error { return m.DownFunc(ctx, tx) }
func (m MigFields) Version() int64                              { return m.VersionFunc() }

// Up applies every migration newer than the current version, each in its own
// transaction.
func Up(ctx context.Context, db *sqlx.DB, migs []Migration) error {
	return migrate(ctx, db, migs, true)
}

// Down unwinds every applied migration, newest first.
func Down(ctx context.Context, db *sqlx.DB, migs []Migration) error {
	return migrate(ctx, db, migs, false)
}

// Pending returns the migrations Up would run, in order.
func Pending(ctx context.Context, db *sqlx.DB, migs []Migration) ([]Migration, error) {
	curVersion, err := currentVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range sortedCopy(migs, true) {
		if curVersion < m.Version() {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// LatestVersion is the highest version in migs, or NilVersion for none.
func LatestVersion(migs []Migration) int64 {
	var highest int64 = NilVersion
	for _, mig := range migs {
		if mig.Version() > highest {
			highest = mig.Version()
		}
	}
	return highest
}

func sortedCopy(migs []Migration, up bool) []Migration {
	s := make([]Migration, len(migs))
	copy(s, migs)
	if up {
		sort.Sort(sorted(s))
	} else {
		sort.Sort(sort.Reverse(sorted(s)))
	}
	return s
}

func currentVersion(ctx context.Context, db *sqlx.DB) (int64, error) {
	var curVersion int64
	err := tx(ctx, db, func(tx *sqlx.Tx) error {
		version, dirty, err := Version(ctx, tx)
		if err != nil {
			return err
		}
		if dirty {
			return dirtyErr(version)
		}
		curVersion = version
		return nil
	})
	return curVersion, err
}

func migrate(ctx context.Context, db *sqlx.DB, migs []Migration, up bool) error {
	curVersion, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range sortedCopy(migs, up) {
		// skip over migrations we have run
		mVersion := m.Version()
		if (up && curVersion < mVersion) || (!up && curVersion >= mVersion) {
			// one transaction per migration, a failure keeps the earlier ones
			err := tx(ctx, db, func(tx *sqlx.Tx) error {
				return run(ctx, tx, m, up)
			})
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"version": mVersion, "up": up}).Info("applied migration")
		}
	}

	return nil
}

func tx(ctx context.Context, db *sqlx.DB, f func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
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

func withLock(ctx context.Context, tx *sqlx.Tx, f func(*sqlx.Tx) error) error {
	err := lock(ctx, tx)
	if err != nil {
		return err
	}
	err = f(tx)

	errU := unlock(ctx, tx)

	if errU != nil {
		if err == nil {
			err = errU
		} else {
			err = multiError(err, errU)
		}
	}
	return err
}

var _ error = multiError()

// MultiError holds multiple errors.
type MultiError struct {
	Errs []error
}

func multiError(errs ...error) MultiError {
	compactErrs := make([]error, 0)
	for _, e := range errs {
		if e != nil {
			compactErrs = append(compactErrs, e)
		}
	}
	return MultiError{compactErrs}
}

func (m MultiError) Error() string {
	var strs = make([]string, 0)
	for _, e := range m.Errs {
		strs = append(strs, e.Error())
	}
	return strings.Join(strs, "\n")
}

func run(ctx context.Context, tx *sqlx.Tx, m Migration, up bool) error {
	return withLock(ctx, tx, func(tx *sqlx.Tx) error {
		// within the transaction, we need to check the version and ensure this
		// migration has not already been applied.
		curVersion, dirty, err := Version(ctx, tx)
		if err != nil {
			return err
		}
		if dirty {
			return dirtyErr(curVersion)
		}

		// enforce monotonicity
		if up && curVersion != NilVersion && m.Version() != curVersion+1 {
			return fmt.Errorf("non-contiguous migration attempted up: %v != %v", m.Version(), curVersion+1)
		} else if !up && m.Version() != curVersion { // down is always unraveling
			return fmt.Errorf("non-contiguous migration attempted down: %v != %v", m.Version(), curVersion)
		}

		version := m.Version()
		if !up {
			version = m.Version() - 1
		}

		if err := SetVersion(ctx, tx, version, true); err != nil {
			return err
		}

		if up {
			err = m.Up(ctx, tx)
		} else {
			err = m.Down(ctx, tx)
		}

		if err != nil {
			return migrateErr(version, up, err)
		}

		return SetVersion(ctx, tx, version, false)
	})
}

const advisoryLockIdSalt uint = 1486364155

// inspired by rails migrations, see https://goo.gl/8o9bCT
func generateAdvisoryLockId(name string) string {
	sum := crc32.ChecksumIEEE([]byte(name))
	sum = sum * uint32(advisoryLockIdSalt)
	return fmt.Sprintf("%v", sum)
}

func lock(ctx context.Context, tx *sqlx.Tx) error {
	aid := generateAdvisoryLockId(MigrationsTable)

	// pg has special locking & sqlite3 needs no locking
	var query string
	switch tx.DriverName() {
	case "postgres", "pgx":
		query = `SELECT pg_try_advisory_lock(?)`
	case "mysql":
		query = "SELECT GET_LOCK(?, -1)"
	case "sqlite3":
		// sqlite3 serializes writers itself
		return nil
	default:
		return fmt.Errorf("unsupported database, please add this or fix: %v", tx.DriverName())
	}

	query = tx.Rebind(query)

	var success bool
	if err := tx.QueryRowContext(ctx, query, aid).Scan(&success); err != nil {
		return err
	}

	if success {
		return nil
	}

	return ErrLocked
}

func unlock(ctx context.Context, tx *sqlx.Tx) error {
	aid := generateAdvisoryLockId(MigrationsTable)

	var query string
	switch tx.DriverName() {
	case "postgres", "pgx":
		query = `SELECT pg_advisory_unlock(?)`
	case "mysql":
		query = `SELECT RELEASE_LOCK(?)`
	case "sqlite3":
		return nil
	default:
		return fmt.Errorf("unsupported database, please add this or fix: %v", tx.DriverName())
	}

	query = tx.Rebind(query)

	_, err := tx.ExecContext(ctx, query, aid)
	return err
}

func SetVersion(ctx context.Context, tx *sqlx.Tx, version int64, dirty bool) error {
	err := ensureVersionTable(ctx, tx)
	if err != nil {
		logrus.WithError(err).Error("error ensuring version table")
		return err
	}

	/* #nosec */
	query := tx.Rebind("DELETE FROM " + MigrationsTable)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		logrus.WithError(err).Error("error deleting version table")
		return err
	}

	if version >= 0 {
		/* #nosec */
		query = tx.Rebind(`INSERT INTO ` + MigrationsTable + ` (version, dirty) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, query, version, dirty); err != nil {
			logrus.WithError(err).Error("error updating version table")
			return err
		}
	}

	return nil
}

func Version(ctx context.Context, tx *sqlx.Tx) (version int64, dirty bool, err error) {
	helper, ok := dbhelper.GetHelper(tx.DriverName())
	if !ok {
		return 0, false, fmt.Errorf("no db helper registered for for %s", tx.DriverName())
	}

	tableExists, err := helper.CheckTableExists(tx, MigrationsTable)

	if err != nil {
		return 0, false, err
	}

	if !tableExists {
		return NilVersion, false, nil
	}

	/* #nosec */
	query := tx.Rebind(`SELECT version, dirty FROM ` + MigrationsTable + ` LIMIT 1`)

	err = tx.QueryRowContext(ctx, query).Scan(&version, &dirty)
	switch {
	case err == sql.ErrNoRows:
		return NilVersion, false, nil

	case err != nil:
		return 0, false, err

	default:
		return version, dirty, nil
	}
}

func ensureVersionTable(ctx context.Context, tx *sqlx.Tx) error {
	query := tx.Rebind(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %v (
		version bigint NOT NULL PRIMARY KEY,
		dirty boolean NOT NULL
	)`, MigrationsTable))
	_, err := tx.ExecContext(ctx, query)
	return err
}
