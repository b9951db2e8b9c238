package config

import (
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Source.Locations = []string{"teams.json"}
	return cfg
}

// find returns the first issue at path, or nil.
func find(issues []Issue, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Validate(validConfig()))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		path     string
		severity IssueSeverity
		contains string
	}{
		{
			name:     "empty job",
			mutate:   func(c *Config) { c.Job = " " },
			path:     "job",
			severity: SeverityError,
		},
		{
			name:     "no locations",
			mutate:   func(c *Config) { c.Source.Locations = nil },
			path:     "source.locations",
			severity: SeverityError,
		},
		{
			name:     "bad format",
			mutate:   func(c *Config) { c.Source.Format = "yaml" },
			path:     "source.format",
			severity: SeverityError,
			contains: "not one of",
		},
		{
			name:     "too many retries",
			mutate:   func(c *Config) { c.Source.HTTP.MaxRetries = 50 },
			path:     "source.http.max_retries",
			severity: SeverityError,
		},
		{
			name:     "insecure http",
			mutate:   func(c *Config) { c.Source.HTTP.Insecure = true },
			path:     "source.http.insecure",
			severity: SeverityWarning,
		},
		{
			name:     "half s3 credentials",
			mutate:   func(c *Config) { c.Source.S3.AccessKeyID = "AKIA" },
			path:     "source.s3",
			severity: SeverityError,
		},
		{
			name:     "bad s3 endpoint",
			mutate:   func(c *Config) { c.Source.S3.Endpoint = "not a url" },
			path:     "source.s3.endpoint",
			severity: SeverityError,
			contains: "valid URL",
		},
		{
			name:     "unknown sink",
			mutate:   func(c *Config) { c.Sink.Kind = "parquet" },
			path:     "sink.kind",
			severity: SeverityError,
		},
		{
			name:     "csv without dir",
			mutate:   func(c *Config) { c.Sink.Kind = "csv" },
			path:     "sink.dir",
			severity: SeverityError,
		},
		{
			name:     "xlsx without path",
			mutate:   func(c *Config) { c.Sink.Kind = "xlsx" },
			path:     "sink.path",
			severity: SeverityError,
		},
		{
			name:     "atomic writes on file sink",
			mutate:   func(c *Config) { c.Sink.Kind, c.Sink.Dir, c.Runtime.AtomicWrites = "csv", "out", true },
			path:     "runtime.atomic_writes",
			severity: SeverityWarning,
		},
		{
			name:     "missing driver",
			mutate:   func(c *Config) { c.DB.Driver = "" },
			path:     "db.driver",
			severity: SeverityError,
		},
		{
			name:     "unknown driver",
			mutate:   func(c *Config) { c.DB.Driver = "oracle" },
			path:     "db.driver",
			severity: SeverityWarning,
			contains: "registered",
		},
		{
			name:     "missing database name",
			mutate:   func(c *Config) { c.DB.Name = "" },
			path:     "db.name",
			severity: SeverityError,
		},
		{
			name:     "database name is not an identifier",
			mutate:   func(c *Config) { c.DB.Name = "drop table; --" },
			path:     "db.name",
			severity: SeverityError,
			contains: "identifier",
		},
		{
			name:     "server driver without host",
			mutate:   func(c *Config) { c.DB.Host = "" },
			path:     "db.host",
			severity: SeverityError,
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.DB.Port = 70000 },
			path:     "db.port",
			severity: SeverityError,
			contains: "lte=65535",
		},
		{
			name:     "no timeout",
			mutate:   func(c *Config) { c.Runtime.Timeout = 0 },
			path:     "runtime.timeout",
			severity: SeverityWarning,
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Log.Level = "loud" },
			path:     "log.level",
			severity: SeverityError,
		},
		{
			name:     "prometheus without gateway",
			mutate:   func(c *Config) { c.Metrics.Backend = "prometheus" },
			path:     "metrics.pushgateway_url",
			severity: SeverityError,
		},
		{
			name:     "datadog without address",
			mutate:   func(c *Config) { c.Metrics.Backend = "datadog" },
			path:     "metrics.datadog_addr",
			severity: SeverityError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			iss := find(Validate(cfg), tt.path)
			require.NotNil(t, iss, "expected an issue at %s", tt.path)
			assert.Equal(t, tt.severity, iss.Severity)
			if tt.contains != "" {
				assert.Contains(t, iss.Message, tt.contains)
			}
		})
	}
}

func TestValidate_SQLiteFileName(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DB = DB{Driver: "sqlite", Name: "/var/lib/roster/competition.db"}
	assert.Empty(t, Validate(cfg))
}

func TestValidate_FileSinksIgnoreDB(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Sink = Sink{Kind: "csv", Dir: "out"}
	cfg.DB = DB{}
	assert.Empty(t, Validate(cfg))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Runtime.Timeout = 0
	warnings, err := Check(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "runtime.timeout", warnings[0].Path)

	cfg.Job = ""
	cfg.DB.Name = ""
	_, err = Check(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.True(t, strings.Contains(err.Error(), "job:") && strings.Contains(err.Error(), "db.name:"))
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityWarning, Path: "runtime.timeout", Message: "no run timeout"}
	assert.Equal(t, "warning at runtime.timeout: no run timeout", iss.Error())
}
