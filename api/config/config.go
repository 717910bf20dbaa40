package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/datastore"
)

const (
	EnvDB        = "SHORTY_DB"
	EnvLogLevel  = "SHORTY_LOG_LEVEL"
	EnvLogFormat = "SHORTY_LOG_FORMAT"
	EnvLogDest   = "SHORTY_LOG_DEST"

	DefaultSharedMaxAge = 300
)

var ErrNoDatabase = errors.New("config: one of database_file or database_url is required")

// Config is the TOML document of a shorty CGI script. The script's shebang
// line is a TOML comment, so the whole file parses as is:
//
//	#!/usr/local/bin/shorty-cgi
//	database_file = "/var/lib/shorty/shorty.db"
//
//	[cache]
//	s_maxage = 600
type Config struct {
	DatabaseFile string `toml:"database_file"`
	DatabaseURL  string `toml:"database_url"`

	// Debug enables the /debug/env page.
	Debug bool `toml:"debug"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogDest   string `toml:"log_dest"`

	Cache   Cache   `toml:"cache"`
	Metrics Metrics `toml:"metrics"`
}

type Cache struct {
	// SharedMaxAge is the s-maxage of short url pages, in seconds.
	SharedMaxAge int64 `toml:"s_maxage"`
}

type Metrics struct {
	PushgatewayURL string `toml:"pushgateway_url"`
	Job            string `toml:"job"`
	// TimeoutMillis bounds the push at exit, common.DefaultPushTimeout when zero.
	TimeoutMillis int64 `toml:"timeout_ms"`
	// Aggregating marks a gateway that sums pushes instead of replacing them.
	Aggregating bool `toml:"aggregating"`
}

// PushOptions is the metrics section as common.PushOptions.
func (m Metrics) PushOptions() common.PushOptions {
	return common.PushOptions{
		URL:         m.PushgatewayURL,
		Job:         m.Job,
		Timeout:     time.Duration(m.TimeoutMillis) * time.Millisecond,
		Aggregating: m.Aggregating,
	}
}

// Load reads and parses the file at path, then applies environment
// overrides.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a config document. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	c := &Config{Cache: Cache{SharedMaxAge: DefaultSharedMaxAge}}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return nil, err
	}
	c.applyEnv()
	if c.DatabaseFile == "" && c.DatabaseURL == "" {
		return nil, ErrNoDatabase
	}
	if c.Cache.SharedMaxAge < 0 {
		return nil, fmt.Errorf("config: cache.s_maxage must not be negative, got %d", c.Cache.SharedMaxAge)
	}
	if c.Metrics.TimeoutMillis < 0 {
		return nil, fmt.Errorf("config: metrics.timeout_ms must not be negative, got %d", c.Metrics.TimeoutMillis)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.DatabaseURL = common.GetEnv(EnvDB, c.DatabaseURL)
	c.LogLevel = common.GetEnv(EnvLogLevel, c.LogLevel)
	c.LogFormat = common.GetEnv(EnvLogFormat, c.LogFormat)
	c.LogDest = common.GetEnv(EnvLogDest, c.LogDest)
}

// DatastoreURL is database_url when set, otherwise database_file as a
// sqlite url, read-only when readOnly is set.
func (c *Config) DatastoreURL(readOnly bool) (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	return datastore.URLFromPath(c.DatabaseFile, readOnly)
}

func (c *Config) SharedMaxAge() time.Duration {
	return time.Duration(c.Cache.SharedMaxAge) * time.Second
}

// ConfigureLogging applies the log settings to the standard logger.
func (c *Config) ConfigureLogging(prefix string) {
	common.SetLogLevel(c.LogLevel)
	common.SetLogFormat(c.LogFormat)
	common.SetLogDest(c.LogDest, prefix)
}
