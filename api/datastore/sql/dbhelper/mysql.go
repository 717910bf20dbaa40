package dbhelper

import (
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type mysqlHelper int

func (mysqlHelper) Supports(scheme string) bool {
	return scheme == "mysql"
}

func (mysqlHelper) DriverName() string { return "mysql" }

// mysql wants the DSN without the scheme, e.g. user:pass@tcp(host:3306)/shorty.
// Such DSNs are not valid urls and arrive as Opaque.
func (mysqlHelper) PreInit(url *url.URL) (string, error) {
	if url.Opaque != "" {
		return url.Opaque, nil
	}
	return strings.TrimPrefix(url.String(), url.Scheme+"://"), nil
}

func (mysqlHelper) PostCreate(db *sqlx.DB) (*sqlx.DB, error) {
	return db, nil
}

func (mysqlHelper) CheckTableExists(tx *sqlx.Tx, table string) (bool, error) {
	query := tx.Rebind(`SELECT count(*)
	FROM information_schema.TABLES
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`)

	var count int
	if err := tx.QueryRow(query, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mysqlHelper) String() string {
	return "mysql"
}

func (mysqlHelper) IsDuplicateKeyError(err error) bool {
	switch dbErr := err.(type) {
	case *mysql.MySQLError:
		if dbErr.Number == 1062 {
			return true
		}
	}
	return false
}

func (mysqlHelper) RandomFunc() string { return "RAND()" }

func init() {
	Add(mysqlHelper(0))
}
