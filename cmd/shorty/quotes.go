package main

import (
	"context"
	"fmt"

	"github.com/shorty-cgi/shorty/api/models"
	"github.com/urfave/cli"
)

func (s *shortyCmd) addQuote(c *cli.Context) error {
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

	q := &models.Quotation{Collection: c.String("collection"), Quote: c.Args().First()}
	if err := ds.InsertQuotation(ctx, q); err != nil {
		return err
	}
	fmt.Fprintln(s.errOut, "quotation added")
	return nil
}
