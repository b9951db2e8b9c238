package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoad_File(t *testing.T) {
	p := writeFile(t, "roster.json", `{
		"job": "nightly",
		"source": {
			"locations": ["teams.json", "https://example.com/teams.xml"],
			"format": "xml",
			"http": {"timeout": "5s", "max_retries": 1, "headers": {"Authorization": "Bearer x"}}
		},
		"db": {"driver": "postgres", "port": 5432, "options": {"sslmode": "disable"}},
		"runtime": {"atomic_writes": true}
	}`)

	cfg, err := Load(Options{File: p})
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Job)
	assert.Equal(t, []string{"teams.json", "https://example.com/teams.xml"}, cfg.Source.Locations)
	assert.Equal(t, "xml", cfg.Source.Format)
	assert.Equal(t, 5*time.Second, cfg.Source.HTTP.Timeout)
	assert.Equal(t, 1, cfg.Source.HTTP.MaxRetries)
	assert.Equal(t, "Bearer x", cfg.Source.HTTP.Headers["Authorization"])
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, map[string]string{"sslmode": "disable"}, cfg.DB.Options)
	assert.True(t, cfg.Runtime.AtomicWrites)

	// Untouched keys keep their defaults.
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "competition", cfg.DB.Name)
	assert.Equal(t, 4, cfg.Runtime.FetchWorkers)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")

	_, err = Load(Options{File: writeFile(t, "bad.json", `{"job":`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")

	_, err = Load(Options{File: writeFile(t, "array.json", `[1, 2]`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot unmarshal array")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeFile(t, "roster.json", `{"db": {"host": "from-file", "port": 3307}}`)
	t.Setenv("ROSTER_DB__HOST", "from-env")
	t.Setenv("ROSTER_SOURCE__LOCATIONS", "a.json, b.xml,,")
	t.Setenv("ROSTER_RUNTIME__TIMEOUT", "90s")
	t.Setenv("ROSTER_RUNTIME__ATOMIC_WRITES", "true")

	cfg, err := Load(Options{File: p})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.DB.Host)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, []string{"a.json", "b.xml"}, cfg.Source.Locations)
	assert.Equal(t, 90*time.Second, cfg.Runtime.Timeout)
	assert.True(t, cfg.Runtime.AtomicWrites)
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "ROSTER_LOG__LEVEL"
	t.Cleanup(func() { _ = os.Unsetenv(key) })
	_ = os.Unsetenv(key)

	p := writeFile(t, ".env", key+"=debug\n")
	cfg, err := Load(Options{EnvFiles: []string{filepath.Join(t.TempDir(), "absent.env"), p}})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("ROSTER_JOB", "from-env")

	p := writeFile(t, ".env", "ROSTER_JOB=from-dotenv\n")
	cfg, err := Load(Options{EnvFiles: []string{p}})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Job)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("ROSTER_SINK__KIND", "csv")

	cfg, err := Load(Options{Overrides: map[string]any{
		"sink.kind":             "xlsx",
		"sink.path":             "out.xlsx",
		"runtime.fetch_workers": "8",
		"source.locations":      []string{"x.json"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Sink.Kind)
	assert.Equal(t, "out.xlsx", cfg.Sink.Path)
	assert.Equal(t, 8, cfg.Runtime.FetchWorkers)
	assert.Equal(t, []string{"x.json"}, cfg.Source.Locations)
}

func TestLoad_DecodeError(t *testing.T) {
	t.Setenv("ROSTER_DB__PORT", "not-a-port")

	_, err := Load(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "db.host", envKey("ROSTER_DB__HOST"))
	assert.Equal(t, "runtime.atomic_writes", envKey("ROSTER_RUNTIME__ATOMIC_WRITES"))
	assert.Equal(t, "source.http.max_retries", envKey("ROSTER_SOURCE__HTTP__MAX_RETRIES"))
}

func TestDBParams(t *testing.T) {
	t.Parallel()

	d := DB{Driver: "mysql", Host: "db", Port: 3306, User: "app", Password: "pw", Name: "competition", Options: map[string]string{"tls": "true"}}
	p := d.Params()
	assert.Equal(t, "competition", p.Database)
	assert.Equal(t, "pw", p.Password)
	assert.Equal(t, "true", p.Options["tls"])
	require.NoError(t, p.Validate())
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.DB.Password = "secret"
	cfg.Source.S3.SecretAccessKey = "s3cret"
	cfg.Source.HTTP.Headers = map[string]string{"Authorization": "Bearer x"}

	r := cfg.Redacted()
	assert.Equal(t, "****", r.DB.Password)
	assert.Equal(t, "****", r.Source.S3.SecretAccessKey)
	assert.Equal(t, "****", r.Source.HTTP.Headers["Authorization"])

	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, "Bearer x", cfg.Source.HTTP.Headers["Authorization"])
}
