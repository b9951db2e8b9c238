package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "db.port"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ErrInvalid is returned by Check when Validate reports at least one error.
var ErrInvalid = errors.New("invalid configuration")

var sqlIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdent.MatchString(fl.Field().String())
	})
	return v
}

// Validate performs static checks over cfg. It does not mutate cfg. Callers
// may decide whether to treat warnings as fatal.
func Validate(cfg Config) []Issue {
	issues := tagIssues(cfg)

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	issues = append(issues, validateSource(cfg.Source)...)
	issues = append(issues, validateSink(cfg)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

// Check runs Validate and folds its errors into one, wrapping ErrInvalid.
// Warnings are returned separately.
func Check(cfg Config) (warnings []Issue, err error) {
	var msgs []string
	for _, iss := range Validate(cfg) {
		if iss.Severity == SeverityWarning {
			warnings = append(warnings, iss)
			continue
		}
		msgs = append(msgs, iss.Path+": "+iss.Message)
	}
	if len(msgs) > 0 {
		return warnings, errors.Wrap(ErrInvalid, strings.Join(msgs, "; "))
	}
	return warnings, nil
}

// tagIssues converts validator tag failures into issues.
func tagIssues(cfg Config) []Issue {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}
	out := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Issue{
			Severity: SeverityError,
			Path:     fieldPath(fe.Namespace()),
			Message:  tagMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root type from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%v is not one of [%s]", fe.Value(), fe.Param())
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%v violates %s=%s", fe.Value(), fe.Tag(), fe.Param())
	case "sqlident":
		return fmt.Sprintf("%q is not a plain SQL identifier", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if len(s.Locations) == 0 && strings.TrimSpace(s.ListFile) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.locations",
			Message:  "no source locations; set source.locations or source.list_file",
		})
	}
	if s.HTTP.Insecure {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.http.insecure",
			Message:  "TLS certificate verification is disabled",
		})
	}
	if (s.S3.AccessKeyID == "") != (s.S3.SecretAccessKey == "") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.s3",
			Message:  "access_key_id and secret_access_key must be set together",
		})
	}
	return issues
}

func validateSink(cfg Config) []Issue {
	var issues []Issue

	switch cfg.Sink.Kind {
	case "db":
		issues = append(issues, validateDB(cfg.DB)...)
	case "csv":
		if strings.TrimSpace(cfg.Sink.Dir) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.dir",
				Message:  "csv sink requires an output directory",
			})
		}
	case "xlsx":
		if strings.TrimSpace(cfg.Sink.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.path",
				Message:  "xlsx sink requires an output file path",
			})
		}
	}
	if cfg.Sink.Kind != "db" && cfg.Runtime.AtomicWrites {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.atomic_writes",
			Message:  fmt.Sprintf("atomic_writes only applies to the db sink; ignored for %q", cfg.Sink.Kind),
		})
	}
	return issues
}

func validateDB(d DB) []Issue {
	var issues []Issue

	known := map[string]struct{}{
		"mysql":    {},
		"postgres": {},
		"mssql":    {},
		"sqlite":   {},
	}
	switch {
	case strings.TrimSpace(d.Driver) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.driver",
			Message:  "db sink requires a driver",
		})
	default:
		if _, ok := known[d.Driver]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "db.driver",
				Message:  fmt.Sprintf("unknown driver %q; ensure a matching dialect is registered", d.Driver),
			})
		}
	}

	if strings.TrimSpace(d.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.name",
			Message:  "db sink requires a database name",
		})
		return issues
	}
	// SQLite names a file; server engines need an identifier usable in
	// CREATE DATABASE.
	if d.Driver != "sqlite" {
		if err := validate.Var(d.Name, "sqlident"); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.name",
				Message:  fmt.Sprintf("%q is not a plain SQL identifier", d.Name),
			})
		}
		if strings.TrimSpace(d.Host) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.host",
				Message:  fmt.Sprintf("%s requires a host", d.Driver),
			})
		}
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue
	if r.Timeout == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.timeout",
			Message:  "no run timeout; a stalled source or database blocks forever",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend requires a Pushgateway URL",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires a DogStatsD address",
			})
		}
	}
	return issues
}
