package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rosteretl/internal/config"
	"rosteretl/internal/logger"
	"rosteretl/internal/metrics"
	"rosteretl/internal/metrics/datadog"
	"rosteretl/internal/metrics/prompush"
	"rosteretl/internal/observer"
	"rosteretl/internal/pipeline"
	"rosteretl/internal/roster"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load the configured sources and write the roster to the sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			warnings, err := config.Check(*cfg)
			if err != nil {
				return err
			}

			log, closeLog, err := logger.Open(logger.Config{
				Level:  cfg.Log.Level,
				Format: logger.Format(cfg.Log.Format),
				File:   cfg.Log.File,
			})
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			for _, w := range warnings {
				log.Warn().Str("path", w.Path).Msg(w.Message)
			}
			log.Debug().Interface("config", cfg.Redacted()).Msg("configuration loaded")

			setupMetrics(cfg, &log)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Warn().Err(err).Msg("metrics flush failed")
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.Runtime.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
				defer cancel()
			}

			obs := observer.Multi{observer.NewLog(&log), observer.NewMetrics(cfg.Job)}
			p, err := pipeline.FromConfig(cfg, &log, obs)
			if err != nil {
				return err
			}

			res, err := p.Run(ctx)
			if err != nil {
				log.Error().Err(err).Str("job", cfg.Job).Msg("run failed")
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "teams=%d sports_kinds=%d members=%d members_teams=%d took=%s\n",
				res.Teams, res.Rows[roster.TableSportsKinds], res.Rows[roster.TableMembers], res.Rows[roster.TableMemberships],
				res.Took.Round(time.Millisecond))
			return nil
		},
	}
}

// setupMetrics installs the configured metrics backend. A backend that
// cannot be created is logged and metrics stay disabled.
func setupMetrics(cfg *config.Config, log *zerolog.Logger) {
	m := cfg.Metrics
	switch m.Backend {
	case "prometheus":
		b, err := prompush.NewBackend(cfg.Job, m.PushgatewayURL)
		if err != nil {
			log.Warn().Err(err).Msg("metrics: prometheus backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: m.DatadogAddr, Namespace: m.Namespace, GlobalTags: m.Tags})
		if err != nil {
			log.Warn().Err(err).Msg("metrics: datadog backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
	default:
		log.Debug().Str("backend", m.Backend).Msg("metrics disabled")
		return
	}
	log.Info().Str("backend", m.Backend).Str("job", cfg.Job).Msg("metrics enabled")
}
