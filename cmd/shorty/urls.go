package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shorty-cgi/shorty/api/datastore"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/urfave/cli"
)

var errNoDatabase = errors.New("--database (or SHORTY_DB) is required")

var exportHeader = []string{"shorturl", "url", "last_modified"}

type shortyCmd struct {
	out    io.Writer
	errOut io.Writer
}

func (s *shortyCmd) open(c *cli.Context, readOnly bool) (models.Datastore, error) {
	path := c.String("database")
	if path == "" {
		return nil, errNoDatabase
	}
	dbURL, err := datastore.URLFromPath(path, readOnly)
	if err != nil {
		return nil, err
	}
	return datastore.New(context.Background(), dbURL)
}

func (s *shortyCmd) set(c *cli.Context) error {
	name, err := models.NewShortURLName(c.Args().Get(0))
	if err != nil {
		return err
	}
	u, err := models.ParseURL(c.Args().Get(1))
	if err != nil {
		return err
	}

	ds, err := s.open(c, false)
	if err != nil {
		return err
	}
	defer ds.Close()

	ctx := context.Background()
	latest, err := ds.HasLatestSchema(ctx)
	if err != nil {
		return err
	}
	if !latest {
		return models.ErrMigrationsNeeded
	}
	if err := ds.InsertURL(ctx, name, u); err != nil {
		return err
	}
	fmt.Fprintln(s.errOut, "url saved")
	return nil
}

func (s *shortyCmd) get(c *cli.Context) error {
	name, err := models.NewShortURLName(c.Args().Get(0))
	if err != nil {
		return err
	}

	ds, err := s.open(c, true)
	if err != nil {
		return err
	}
	defer ds.Close()

	shortURL, err := ds.GetURL(context.Background(), name)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, shortURL.URL)
	return nil
}

func (s *shortyCmd) list(c *cli.Context) error {
	ds, err := s.open(c, true)
	if err != nil {
		return err
	}
	defer ds.Close()

	return ds.ForEachName(context.Background(), func(name models.ShortURLName) error {
		_, err := fmt.Fprintln(s.out, name)
		return err
	})
}

// export writes RFC 4180 CSV. last_modified is in unix seconds, empty for
// records that predate modification tracking.
func (s *shortyCmd) export(c *cli.Context) error {
	ds, err := s.open(c, true)
	if err != nil {
		return err
	}
	defer ds.Close()

	w := csv.NewWriter(s.out)
	w.UseCRLF = true
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	err = ds.ForEachShortURL(context.Background(), func(su *models.ShortURL) error {
		var lastModified string
		if !su.LastModified.IsZero() {
			lastModified = strconv.FormatInt(su.LastModified.Unix(), 10)
		}
		return w.Write([]string{su.Name.String(), su.URL.String(), lastModified})
	})
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (s *shortyCmd) migrate(c *cli.Context) error {
	ds, err := s.open(c, false)
	if err != nil {
		return err
	}
	defer ds.Close()

	if c.Bool("down") {
		if err := ds.MigrateDown(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(s.errOut, "database migrated down")
		return nil
	}
	if err := ds.Migrate(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(s.errOut, "database migrated")
	return nil
}
