package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `#!/usr/local/bin/shorty-cgi
database_file = "/var/lib/shorty/shorty.db"
debug = true
log_level = "debug"

[cache]
s_maxage = 600

[metrics]
pushgateway_url = "http://pushgateway:9091"
job = "shorty"
timeout_ms = 250
aggregating = true
`

func TestParseScript(t *testing.T) {
	c, err := Parse([]byte(script))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/shorty/shorty.db", c.DatabaseFile)
	assert.True(t, c.Debug)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 10*time.Minute, c.SharedMaxAge())
	assert.Equal(t, "http://pushgateway:9091", c.Metrics.PushgatewayURL)
	assert.Equal(t, "shorty", c.Metrics.Job)

	opts := c.Metrics.PushOptions()
	assert.Equal(t, 250*time.Millisecond, opts.Timeout)
	assert.True(t, opts.Aggregating)
	assert.Equal(t, "http://pushgateway:9091", opts.URL)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(`database_url = "postgres://db/shorty"`))
	require.NoError(t, err)

	assert.False(t, c.Debug)
	assert.Equal(t, DefaultSharedMaxAge*time.Second, c.SharedMaxAge())

	u, err := c.DatastoreURL(true)
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/shorty", u)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`debug = true`))
	assert.True(t, errors.Is(err, ErrNoDatabase), "got %v", err)

	_, err = Parse([]byte("database_file = \"x.db\"\ndatabse_url = \"typo\"\n"))
	assert.Error(t, err, "unknown keys must be rejected")

	_, err = Parse([]byte("database_file = \"x.db\"\n[cache]\ns_maxage = -1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("database_file = \"x.db\"\n[metrics]\ntimeout_ms = -1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("database_file = \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "mysql://user:pw@tcp(db:3306)/shorty")
	t.Setenv(EnvLogLevel, "warn")

	c, err := Parse([]byte(script))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.LogLevel)

	u, err := c.DatastoreURL(true)
	require.NoError(t, err)
	assert.Equal(t, "mysql://user:pw@tcp(db:3306)/shorty", u)
}

func TestDatastoreURLFromFile(t *testing.T) {
	c := &Config{DatabaseFile: "shorty.db"}
	u, err := c.DatastoreURL(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "sqlite3:///"), u)
	assert.True(t, strings.HasSuffix(u, "/shorty.db?mode=ro"), u)

	u, err = c.DatastoreURL(false)
	require.NoError(t, err)
	assert.False(t, strings.Contains(u, "mode=ro"), u)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shorty.cgi")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/shorty/shorty.db", c.DatabaseFile)

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
