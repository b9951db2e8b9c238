package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"rosteretl/internal/config"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	ConfigFile string
	EnvFiles   []string
	Set        []string

	Locations []string
	Format    string
	Sink      string
	Driver    string
	LogLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "rosteretl",
		Short:         "Normalize team lists and persist them as a roster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "JSON config file")
	f.StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, ".env files to load (missing files are skipped)")
	f.StringArrayVar(&opts.Set, "set", nil, "override a config key, e.g. --set db.host=db (repeatable)")
	f.StringSliceVarP(&opts.Locations, "location", "l", nil, "source location: path, http(s):// or s3:// URL (repeatable)")
	f.StringVar(&opts.Format, "format", "", "source format: auto, xml or json")
	f.StringVar(&opts.Sink, "sink", "", "sink kind: db, csv or xlsx")
	f.StringVar(&opts.Driver, "driver", "", "database driver for the db sink")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newSchemaCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// load reads the configuration with the flags of cmd as the top layer.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	overrides, err := o.overrides(cmd)
	if err != nil {
		return nil, err
	}
	return config.Load(config.Options{
		File:      o.ConfigFile,
		EnvFiles:  o.EnvFiles,
		Overrides: overrides,
	})
}

// overrides collects the flags set on the command line as dotted keys.
func (o *rootOptions) overrides(cmd *cobra.Command) (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range o.Set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Errorf("--set %q: want key=value", kv)
		}
		out[strings.TrimSpace(k)] = v
	}

	flags := cmd.Flags()
	named := []struct {
		flag string
		key  string
		val  any
	}{
		{"location", "source.locations", o.Locations},
		{"format", "source.format", o.Format},
		{"sink", "sink.kind", o.Sink},
		{"driver", "db.driver", o.Driver},
		{"log-level", "log.level", o.LogLevel},
	}
	for _, n := range named {
		if flags.Changed(n.flag) {
			out[n.key] = n.val
		}
	}
	return out, nil
}
