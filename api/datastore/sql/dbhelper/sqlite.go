package dbhelper

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type sqliteHelper int

func (sqliteHelper) Supports(scheme string) bool {
	switch scheme {
	case "sqlite3", "sqlite":
		return true
	}
	return false
}

func (sqliteHelper) DriverName() string { return "sqlite3" }

// PreInit returns a sqlite URI filename. Unless the database is opened
// read-only (?mode=ro), the parent directory is created.
func (sqliteHelper) PreInit(u *url.URL) (string, error) {
	path := u.Path
	if path == "" {
		// sqlite3://relative.db
		path = u.Host + u.Opaque
	}
	if u.Query().Get("mode") != "ro" {
		// make all the dirs so we can make the file..
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	dsn := "file:" + path
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}
	return dsn, nil
}

func (sqliteHelper) PostCreate(db *sqlx.DB) (*sqlx.DB, error) {
	db.SetMaxOpenConns(1)
	return db, nil
}

func (sqliteHelper) CheckTableExists(tx *sqlx.Tx, table string) (bool, error) {
	query := tx.Rebind(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`)

	var count int
	if err := tx.QueryRow(query, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sqliteHelper) String() string {
	return "sqlite"
}

func (sqliteHelper) IsDuplicateKeyError(err error) bool {
	sqliteErr, ok := err.(sqlite3.Error)
	if ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return true
		}
	}
	return false
}

func (sqliteHelper) RandomFunc() string { return "RANDOM()" }

func init() {
	Add(sqliteHelper(0))
}
