// Package config defines the rosteretl configuration model and loads it from
// layered sources. Later layers override earlier ones:
//
//  1. built-in defaults (Defaults)
//  2. a JSON config file
//  3. .env files (godotenv; never overriding variables already set)
//  4. ROSTER_* environment variables, "__" separating nested keys,
//     e.g. ROSTER_DB__HOST=db or ROSTER_SOURCE__LOCATIONS=a.json,b.xml
//  5. explicit overrides, typically command-line flags
//
// Example file (trimmed):
//
//	{
//	  "job": "nightly",
//	  "source": { "locations": ["https://example.com/teams.json"], "format": "auto" },
//	  "sink":   { "kind": "db" },
//	  "db":     { "driver": "mysql", "host": "db", "port": 3306, "user": "app", "name": "competition" }
//	}
package config

import (
	"time"

	"rosteretl/internal/storage"
)

// Config is the root configuration object.
type Config struct {
	// Job labels logs and metrics of a run.
	Job     string  `koanf:"job" json:"job"`
	Source  Source  `koanf:"source" json:"source"`
	Sink    Sink    `koanf:"sink" json:"sink"`
	DB      DB      `koanf:"db" json:"db"`
	Runtime Runtime `koanf:"runtime" json:"runtime"`
	Log     Log     `koanf:"log" json:"log"`
	Metrics Metrics `koanf:"metrics" json:"metrics"`
}

// Source lists where team lists come from. Locations are read in order and
// their teams concatenated.
type Source struct {
	Locations []string `koanf:"locations" json:"locations"`
	// ListFile names a text file with one more location per line, appended
	// after Locations.
	ListFile string `koanf:"list_file" json:"list_file"`
	// Format is auto, xml or json.
	Format string `koanf:"format" json:"format" validate:"omitempty,oneof=auto xml json"`
	HTTP   HTTP   `koanf:"http" json:"http"`
	S3     S3     `koanf:"s3" json:"s3"`
}

type HTTP struct {
	Timeout    time.Duration     `koanf:"timeout" json:"timeout"`
	MaxRetries int               `koanf:"max_retries" json:"max_retries" validate:"gte=0,lte=10"`
	Insecure   bool              `koanf:"insecure" json:"insecure"`
	Headers    map[string]string `koanf:"headers" json:"headers"`
}

type S3 struct {
	Region          string `koanf:"region" json:"region"`
	Endpoint        string `koanf:"endpoint" json:"endpoint" validate:"omitempty,url"`
	PathStyle       bool   `koanf:"path_style" json:"path_style"`
	AccessKeyID     string `koanf:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key" json:"secret_access_key"`
}

// Sink selects the destination: db, csv or xlsx.
type Sink struct {
	Kind string `koanf:"kind" json:"kind" validate:"oneof=db csv xlsx"`
	Dir  string `koanf:"dir" json:"dir"`
	Path string `koanf:"path" json:"path"`
}

// DB holds connection parameters for the db sink.
type DB struct {
	Driver   string            `koanf:"driver" json:"driver"`
	Host     string            `koanf:"host" json:"host"`
	Port     int               `koanf:"port" json:"port" validate:"gte=0,lte=65535"`
	User     string            `koanf:"user" json:"user"`
	Password string            `koanf:"password" json:"password"`
	Name     string            `koanf:"name" json:"name"`
	Options  map[string]string `koanf:"options" json:"options"`
}

// Params converts the block to storage connection parameters.
func (d DB) Params() storage.Params {
	return storage.Params{
		Driver:   d.Driver,
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		Options:  d.Options,
	}
}

type Runtime struct {
	// Timeout bounds a whole run; zero means none.
	Timeout      time.Duration `koanf:"timeout" json:"timeout" validate:"gte=0"`
	AtomicWrites bool          `koanf:"atomic_writes" json:"atomic_writes"`
	FetchWorkers int           `koanf:"fetch_workers" json:"fetch_workers" validate:"gte=0"`
}

type Log struct {
	Level  string `koanf:"level" json:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" json:"format" validate:"omitempty,oneof=console json"`
	File   string `koanf:"file" json:"file"`
}

// Metrics selects the metrics backend: none, prometheus (Pushgateway) or
// datadog (DogStatsD).
type Metrics struct {
	Backend        string   `koanf:"backend" json:"backend" validate:"omitempty,oneof=none prometheus datadog"`
	PushgatewayURL string   `koanf:"pushgateway_url" json:"pushgateway_url" validate:"omitempty,url"`
	DatadogAddr    string   `koanf:"datadog_addr" json:"datadog_addr"`
	Namespace      string   `koanf:"namespace" json:"namespace"`
	Tags           []string `koanf:"tags" json:"tags"`
}

// Defaults returns the configuration used when no source sets a value.
func Defaults() Config {
	return Config{
		Job:    "rosteretl",
		Source: Source{Format: "auto", HTTP: HTTP{Timeout: 30 * time.Second, MaxRetries: 3}, S3: S3{Region: "us-east-1"}},
		Sink:   Sink{Kind: "db"},
		DB:     DB{Driver: "mysql", Host: "localhost", Port: 3306, User: "root", Name: "competition"},
		Runtime: Runtime{
			Timeout:      10 * time.Minute,
			FetchWorkers: 4,
		},
		Log:     Log{Level: "info", Format: "console"},
		Metrics: Metrics{Backend: "none", Namespace: "roster."},
	}
}

// Redacted returns a copy with secrets masked, for logging.
func (c Config) Redacted() Config {
	out := c
	if out.DB.Password != "" {
		out.DB.Password = "****"
	}
	if out.Source.S3.SecretAccessKey != "" {
		out.Source.S3.SecretAccessKey = "****"
	}
	if len(c.Source.HTTP.Headers) > 0 {
		out.Source.HTTP.Headers = make(map[string]string, len(c.Source.HTTP.Headers))
		for k := range c.Source.HTTP.Headers {
			out.Source.HTTP.Headers[k] = "****"
		}
	}
	return out
}
