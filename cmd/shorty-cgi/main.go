// shorty-cgi serves shorty pages as a CGI program. The CGI script is a TOML
// config whose shebang line points at this binary:
//
//	#!/usr/local/bin/shorty-cgi
//	database_file = "/var/lib/shorty/shorty.db"
//
// Run outside a web server with --migrate to bring the database schema up to
// date.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/config"
	"github.com/shorty-cgi/shorty/api/datastore"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/server"
	"github.com/shorty-cgi/shorty/api/version"
	"github.com/sirupsen/logrus"
)

const (
	logPrefix = "shorty-cgi"
	usage     = "usage: shorty-cgi [--migrate] config.toml\n"
)

func main() {
	guard := cgi.InstallPanicGuard(os.Stdout)
	defer guard.Recover()

	code := run(context.Background(), os.Args[1:], cgi.OSEnvironment{}, os.Stdout, os.Stderr)
	os.Exit(code)
}

type options struct {
	migrate bool
	config  string
}

// web servers may append the query string to argv when it holds no '=', so
// positional arguments after the config are ignored.
func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch {
		case arg == "--migrate":
			opts.migrate = true
		case opts.config == "":
			opts.config = arg
		}
	}
	if opts.config == "" {
		return opts, errors.New("missing config file")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, env cgi.Environment, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)

	if cgi.IsCGI(env) {
		var cfg *config.Config
		if err == nil {
			cfg, err = config.Load(opts.config)
		}
		return serveCGI(ctx, cfg, err, env, stdout)
	}

	if err != nil || !opts.migrate {
		if err != nil {
			fmt.Fprintf(stderr, "shorty-cgi: %v\n", err)
		}
		io.WriteString(stderr, usage)
		return 2
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "shorty-cgi: %v\n", err)
		return 1
	}
	cfg.ConfigureLogging(logPrefix)
	if err := migrate(ctx, cfg); err != nil {
		logrus.WithError(err).Error("migration failed")
		return 1
	}
	return 0
}

func migrate(ctx context.Context, cfg *config.Config) error {
	dbURL, err := cfg.DatastoreURL(false)
	if err != nil {
		return err
	}
	ds, err := datastore.New(ctx, dbURL)
	if err != nil {
		return err
	}
	defer ds.Close()
	if err := ds.Migrate(ctx); err != nil {
		return err
	}
	logrus.Info("database migrated")
	return nil
}

// serveCGI always writes a response, a config that does not load becomes an
// error page.
func serveCGI(ctx context.Context, cfg *config.Config, cfgErr error, env cgi.Environment, stdout io.Writer) int {
	var resp *cgi.Response
	if cfgErr != nil {
		logrus.WithError(cfgErr).Error("could not load config")
		resp = server.ErrorResponse(ctx, http.StatusInternalServerError, cfgErr.Error())
	} else {
		cfg.ConfigureLogging(logPrefix)
		resp = handle(ctx, cfg, env)
	}

	err := cgi.Serialize(resp, stdout)
	if errors.Is(err, cgi.ErrHeader) || errors.Is(err, cgi.ErrContentTooLarge) {
		// nothing has been written yet
		logrus.WithError(err).Error("handler produced an unserializable response")
		err = cgi.Serialize(server.ErrorResponse(ctx, http.StatusInternalServerError, err.Error()), stdout)
	}
	if err != nil {
		logrus.WithError(err).Error("could not write response")
		return 1
	}

	if cfg != nil {
		common.PushMetrics(ctx, cfg.Metrics.PushOptions())
	}
	return 0
}

func handle(ctx context.Context, cfg *config.Config, env cgi.Environment) *cgi.Response {
	r, err := cgi.BuildRequestContext(ctx, env)
	if err != nil {
		logrus.WithError(err).Error("could not build request from environment")
		return server.ErrorResponse(ctx, http.StatusInternalServerError, err.Error())
	}

	s := server.New(ctx,
		server.WithEnvironment(env),
		server.WithDebug(cfg.Debug),
		server.WithCachePolicy(cgi.CachePolicy{Version: version.Version, SharedMaxAge: cfg.SharedMaxAge()}),
		server.WithDatastoreOpener(func(ctx context.Context) (models.Datastore, error) {
			return openReadOnly(ctx, cfg)
		}),
	)
	defer s.Close()

	return s.Handle(ctx, r)
}

func openReadOnly(ctx context.Context, cfg *config.Config) (models.Datastore, error) {
	dbURL, err := cfg.DatastoreURL(true)
	if err != nil {
		return nil, err
	}
	ds, err := datastore.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	latest, err := ds.HasLatestSchema(ctx)
	if err != nil {
		ds.Close()
		return nil, err
	}
	if !latest {
		ds.Close()
		return nil, models.ErrMigrationsNeeded
	}
	return ds, nil
}
