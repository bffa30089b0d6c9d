// Package cmd implements the jobtrack command tree.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobtracker/internal/config"
	"jobtracker/internal/core"
	"jobtracker/internal/logging"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	metrics bool

	registry *prometheus.Registry
	logger   *slog.Logger
	svc      *core.Service
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "jobtrack",
		Short: "Track job applications, contacts and activities",
		Long: `jobtrack keeps three collections: roles you applied to, the contacts
involved, and the activities (emails, calls, interviews) that tie them together.

Common workflows:

  Load the sample dataset:
    jobtrack seed

  Add a role and move it along:
    jobtrack roles add --company Acme --position Engineer
    jobtrack roles update <role-id> --status Applied

  Show the timeline for a role:
    jobtrack activities list --role <role-id>

Configuration:
  Flags, JOBTRACK_* environment variables, a .env file or a config file.
    JOBTRACK_STORAGE_DRIVER  memory, sqlite, postgres, redis, fs, s3 or blob-memory (default sqlite)
    JOBTRACK_SQLITE_PATH     database file for the sqlite driver
    JOBTRACK_POSTGRES_DSN    connection string for the postgres driver
    JOBTRACK_S3_BUCKET       bucket for the s3 driver`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.BoolVar(&a.metrics, "metrics", false, "print collection metrics to stderr on exit")
	flags.String("driver", "", "storage driver")
	flags.String("sqlite-path", "", "sqlite database file")
	flags.String("postgres-dsn", "", "postgres connection string")
	flags.String("redis-addr", "", "redis address")
	flags.String("fs-root", "", "directory for the fs driver")
	flags.String("s3-bucket", "", "bucket for the s3 driver")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	for flag, key := range map[string]string{
		"driver":       config.KeyStorageDriver,
		"sqlite-path":  config.KeySQLitePath,
		"postgres-dsn": config.KeyPostgresDSN,
		"redis-addr":   config.KeyRedisAddr,
		"fs-root":      config.KeyFSRoot,
		"s3-bucket":    config.KeyS3Bucket,
		"log-level":    config.KeyLogLevel,
		"log-format":   config.KeyLogFormat,
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newRolesCmd(a),
		newContactsCmd(a),
		newActivitiesCmd(a),
		newSeedCmd(a),
		newClearCmd(a),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch core.ErrorKind(err) {
	case "":
		return 0
	case "validation":
		return 2
	case "not_found":
		return 3
	case "not_confirmed":
		return 4
	default:
		return 1
	}
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	ctx := logging.ContextWithLogger(cmd.Context(), a.logger)
	cmd.SetContext(ctx)

	medium, err := core.OpenMedium(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Driver, err)
	}
	a.registry = prometheus.NewRegistry()
	recorder, err := core.NewPrometheusMetricsRecorder(a.registry)
	if err != nil {
		_ = medium.Close()
		return err
	}
	svc := core.NewService(ctx, medium, core.WithLogger(a.logger), core.WithMetrics(recorder))
	if err := svc.LoadErr(); err != nil {
		_ = svc.Close()
		return fmt.Errorf("read %s storage: %w", svc.Driver(), err)
	}
	a.svc = svc
	a.logger.Debug("storage opened", "driver", a.svc.Driver())
	return nil
}

// run wraps a RunE body so the service is always closed and unsaved changes
// are reported.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.close(cmd))
	}
}

func (a *app) close(cmd *cobra.Command) error {
	if a.svc == nil {
		return nil
	}
	persistErr := a.svc.PersistErr()
	if a.metrics {
		if err := writeMetrics(cmd.ErrOrStderr(), a.registry); err != nil {
			a.logger.Warn("metrics dump failed", "error", err)
		}
	}
	closeErr := a.svc.Close()
	a.svc = nil
	if persistErr != nil {
		return fmt.Errorf("changes were not saved: %w", persistErr)
	}
	return closeErr
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// promptConfirmer reads a y/yes answer from in.
func promptConfirmer(in io.Reader, out io.Writer) core.Confirmer {
	return core.ConfirmFunc(func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
