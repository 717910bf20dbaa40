package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shorty-cgi/shorty/api/datastore/sql/migratex"
)

func up2(ctx context.Context, tx *sqlx.Tx) error {
	createQuery := `CREATE TABLE IF NOT EXISTS quotations (
	collection varchar(64) NOT NULL,
	quote text NOT NULL
);`
	if _, err := tx.ExecContext(ctx, createQuery); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "CREATE INDEX quotations_collection ON quotations (collection);")
	return err
}

func down2(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE quotations;")
	return err
}

func init() {
	Migrations = append(Migrations, &migratex.MigFields{
		VersionFunc: vfunc(2),
		UpFunc:      up2,
		DownFunc:    down2,
	})
}
