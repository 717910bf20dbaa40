package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shorty-cgi/shorty/api/datastore/sql/migratex"
)

// short_url is stored as entered, lookups compare LOWER() on both sides.
func up1(ctx context.Context, tx *sqlx.Tx) error {
	createQuery := `CREATE TABLE IF NOT EXISTS urls (
	short_url varchar(16) NOT NULL PRIMARY KEY,
	url text NOT NULL
);`
	_, err := tx.ExecContext(ctx, createQuery)
	return err
}

func down1(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE urls;")
	return err
}

func init() {
	Migrations = append(Migrations, &migratex.MigFields{
		VersionFunc: vfunc(1),
		UpFunc:      up1,
		DownFunc:    down1,
	})
}
