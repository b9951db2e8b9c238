package config

import (
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "ROSTER_"

// Options selects the layers Load reads.
type Options struct {
	// File is an optional JSON config file.
	File string
	// EnvFiles are .env files loaded into the process environment. Missing
	// files are skipped.
	EnvFiles []string
	// Overrides are dotted keys applied last, e.g. "db.host".
	Overrides map[string]any
}

// Load builds a Config from defaults, then opts.File, then .env files, then
// ROSTER_* variables, then opts.Overrides. It does not validate; see Validate.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), json.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", opts.File)
		}
	}

	if files := existing(opts.EnvFiles); len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, errors.Wrap(err, "load .env")
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	for key, v := range opts.Overrides {
		if err := k.Set(key, v); err != nil {
			return nil, errors.Wrapf(err, "override %s", key)
		}
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.Source.Locations = trimAll(cfg.Source.Locations)
	return &cfg, nil
}

// envKey maps ROSTER_DB__HOST to db.host.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func existing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
