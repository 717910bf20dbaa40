package dbhelper

import (
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type postgresHelper int

func (postgresHelper) Supports(scheme string) bool {
	switch scheme {
	case "postgres", "postgresql", "pgx":
		return true
	}
	return false
}

func (postgresHelper) DriverName() string { return "postgres" }

// lib/pq takes the url as is
func (postgresHelper) PreInit(url *url.URL) (string, error) {
	return url.String(), nil
}

func (postgresHelper) PostCreate(db *sqlx.DB) (*sqlx.DB, error) {
	return db, nil
}

func (postgresHelper) CheckTableExists(tx *sqlx.Tx, table string) (bool, error) {
	query := tx.Rebind(`SELECT count(*)
	FROM information_schema.TABLES
	WHERE TABLE_NAME = ?`)

	var count int
	if err := tx.QueryRow(query, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (postgresHelper) String() string {
	return "postgres"
}

func (postgresHelper) IsDuplicateKeyError(err error) bool {
	switch dbErr := err.(type) {
	case *pq.Error:
		if dbErr.Code == "23505" {
			return true
		}
	}
	return false
}

func (postgresHelper) RandomFunc() string { return "RANDOM()" }

func init() {
	Add(postgresHelper(0))
}
