package server

import (
	"context"
	"errors"
	"time"

	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/models"
)

// Option is a func that allows configuring a Server
type Option func(context.Context, *Server) error

// WithDatastore uses an already opened datastore.
func WithDatastore(ds models.Datastore) Option {
	return func(ctx context.Context, s *Server) error {
		if ds == nil {
			return errors.New("nil datastore")
		}
		s.openDS = func(context.Context) (models.Datastore, error) { return ds, nil }
		return nil
	}
}

// WithDatastoreOpener defers opening the datastore until a route needs it.
func WithDatastoreOpener(open DatastoreOpener) Option {
	return func(ctx context.Context, s *Server) error {
		s.openDS = open
		return nil
	}
}

// WithEnvironment sets the CGI environment, used for UNIQUE_ID,
// REDIRECT_STATUS and the debug page.
func WithEnvironment(env cgi.Environment) Option {
	return func(ctx context.Context, s *Server) error {
		s.env = env
		return nil
	}
}

// WithCachePolicy overrides the default shared cache policy.
func WithCachePolicy(p cgi.CachePolicy) Option {
	return func(ctx context.Context, s *Server) error {
		s.cachePolicy = p
		return nil
	}
}

// WithDebug enables /debug/env.
func WithDebug(debug bool) Option {
	return func(ctx context.Context, s *Server) error {
		s.debug = debug
		return nil
	}
}

// WithClock replaces time.Now, for Expires headers.
func WithClock(now func() time.Time) Option {
	return func(ctx context.Context, s *Server) error {
		s.now = now
		return nil
	}
}

// LimitResponseBody caps the body a handler may write. Zero means no limit.
func LimitResponseBody(max uint64) Option {
	return func(ctx context.Context, s *Server) error {
		s.maxBody = max
		return nil
	}
}
