package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shorty-cgi/shorty/api/datastore/sql/migratex"
)

// last_modified is unix seconds, 0 for rows written before this migration.
func up3(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "ALTER TABLE urls ADD last_modified bigint NOT NULL DEFAULT 0;")
	return err
}

func down3(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "ALTER TABLE urls DROP COLUMN last_modified;")
	return err
}

func init() {
	Migrations = append(Migrations, &migratex.MigFields{
		VersionFunc: vfunc(3),
		UpFunc:      up3,
		DownFunc:    down3,
	})
}
