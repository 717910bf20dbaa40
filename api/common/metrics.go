package common

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

const metricsNamespace = "shorty_cgi"

// Registry holds every metric of the process. A CGI process lives for one
// request, so the registry is pushed rather than scraped.
var Registry = prometheus.NewRegistry()

var (
	// DroppedHeaders counts HTTP_* variables that did not form a valid header.
	DroppedHeaders = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "dropped_headers_total",
		Help:      "Request headers dropped because their name or value was malformed.",
	})

	// Requests counts handled requests by route and status.
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "requests_total",
		Help:      "Requests handled, by route and status code.",
	}, []string{"route", "status"})

	// RequestDuration observes handler latency by route.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Time spent handling a request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// DatastoreDuration observes datastore calls by operation.
	DatastoreDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "datastore_duration_seconds",
		Help:      "Time spent in datastore calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

func init() {
	Registry.MustRegister(DroppedHeaders, Requests, RequestDuration, DatastoreDuration)
}

// DefaultPushTimeout bounds a push when PushOptions.Timeout is zero. The web
// server only sees the end of the response once the process exits.
const DefaultPushTimeout = time.Second

// PushOptions configures PushMetrics.
type PushOptions struct {
	URL     string
	Job     string
	Timeout time.Duration
	// Aggregating is set when the gateway sums pushes (prom-aggregation-gateway).
	// Otherwise every process pushes under its own "process" grouping key, as
	// a Pushgateway replaces the metrics of a group on each push.
	Aggregating bool
}

// processID is the grouping key of this process' pushes.
var processID = xid.New().String()

// PushMetrics sends the registry to a Prometheus Pushgateway, giving up after
// the timeout. An empty url is a no-op.
func PushMetrics(ctx context.Context, opts PushOptions) error {
	if opts.URL == "" {
		return nil
	}
	if opts.Job == "" {
		opts.Job = metricsNamespace
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPushTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pusher := push.New(opts.URL, opts.Job).
		Gatherer(Registry).
		Client(&http.Client{Timeout: opts.Timeout})
	if host, err := os.Hostname(); err == nil {
		pusher = pusher.Grouping("instance", host)
	}
	if !opts.Aggregating {
		pusher = pusher.Grouping("process", processID)
	}
	if err := pusher.AddContext(ctx); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"url": opts.URL, "job": opts.Job}).Warn("could not push metrics")
		return err
	}
	return nil
}
