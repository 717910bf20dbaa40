package server

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/version"
)

const (
	// ParamShortURL is the route parameter holding the short url name.
	ParamShortURL = "short_url"

	quotationExpiry = 24 * time.Hour
)

// DatastoreOpener opens the datastore on first use, so routes that do not
// need it keep working when it is unavailable.
type DatastoreOpener func(ctx context.Context) (models.Datastore, error)

// Server dispatches one CGI request at a time through a gin engine.
type Server struct {
	// Router is the gin engine, routed on PATH_INFO.
	Router *gin.Engine

	env         cgi.Environment
	openDS      DatastoreOpener
	cachePolicy cgi.CachePolicy
	debug       bool
	maxBody     uint64
	now         func() time.Time

	dsOnce sync.Once
	ds     models.Datastore
	dsErr  error
}

// New creates a Server with the given options applied, and its routes bound.
func New(ctx context.Context, opts ...Option) *Server {
	log := common.Logger(ctx)

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	s := &Server{
		Router:      engine,
		env:         cgi.MapEnvironment{},
		cachePolicy: cgi.CachePolicy{Version: version.Version, SharedMaxAge: cgi.DefaultSharedMaxAge},
		now:         time.Now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(ctx, s); err != nil {
			log.WithError(err).Fatal("Error during server opt initialization.")
		}
	}

	s.bindHandlers()
	return s
}

func (s *Server) bindHandlers() {
	engine := s.Router

	engine.Use(panicWrap, s.ridWrap(), loggerWrap, metricsWrap)

	engine.GET("/", s.handleQuotationGet)
	engine.GET("/:"+ParamShortURL, s.handleShortURLGet)
	engine.GET("/error/doc", s.handleErrorDocGet)
	if s.debug {
		engine.GET("/debug/env", s.handleDebugEnvGet)
	}

	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			handleErrorResponse(c, models.ErrMethodNotAllowed)
			return
		}
		handleErrorResponse(c, models.ErrRouteNotFound)
	})
}

// Handle routes r on its PATH_INFO and returns the captured response. It
// never returns nil.
func (s *Server) Handle(ctx context.Context, r *http.Request) *cgi.Response {
	w := newCaptureWriter(s.maxBody)
	s.Router.ServeHTTP(w, routed(ctx, r))
	return w.response()
}

// Datastore opens the datastore once; later calls return the same result.
func (s *Server) Datastore(ctx context.Context) (models.Datastore, error) {
	s.dsOnce.Do(func() {
		if s.openDS == nil {
			s.dsErr = models.ErrDatastoreUnavailable
			return
		}
		s.ds, s.dsErr = s.openDS(ctx)
	})
	return s.ds, s.dsErr
}

// Close releases the datastore if it was opened.
func (s *Server) Close() error {
	if s.ds != nil {
		return s.ds.Close()
	}
	return nil
}

type ctxPageURLKey struct{}

// routed returns a copy of r, on ctx, whose path is PATH_INFO ("" is "/").
// The url the client asked for stays in the context.
func routed(ctx context.Context, r *http.Request) *http.Request {
	pathInfo := cgi.RequestPathInfo(r)
	ctx = context.WithValue(ctx, ctxPageURLKey{}, r.URL)
	r2 := cgi.WithPathInfo(r.WithContext(ctx), pathInfo)

	u := *r.URL
	u.Path = pathInfo
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawPath = ""
	r2.URL = &u
	return r2
}

// pageURL is the absolute url of the current page, as the client requested
// it.
func pageURL(r *http.Request) string {
	if u, ok := r.Context().Value(ctxPageURLKey{}).(*url.URL); ok && u != nil {
		return u.String()
	}
	return r.URL.String()
}
