package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	"github.com/mohammadpnp/user-provisioning/internal/config"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/file"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/httpclient"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/userapi"
	"github.com/mohammadpnp/user-provisioning/internal/logging"
)

type importOptions struct {
	endpoint   string
	logFile    string
	maxRetries int
	delay      time.Duration
	dryRun     bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [csv-file]",
		Short: "Create one remote user per valid CSV row",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), cfg, csvPath(cfg, args))
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "User creation endpoint (default from PROVISION_ENDPOINT)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Log file name inside the log directory")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 0, "Retries for connection errors and 429/5xx responses")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "Pause after every submitted row")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log the requests instead of sending them")

	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (o *importOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Import.Endpoint = o.endpoint
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = o.logFile
	}
	if flags.Changed("max-retries") {
		cfg.HTTP.MaxRetries = o.maxRetries
	}
	if flags.Changed("delay") {
		cfg.Import.RowDelay = o.delay
	}
	if flags.Changed("dry-run") {
		cfg.Import.DryRun = o.dryRun
	}
	if err := cfg.Validate(); err != nil {
		return withCode(app.ExitFailure, fmt.Errorf("invalid flags: %w", err))
	}
	return nil
}

func csvPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Import.File
}

func runImport(ctx context.Context, console io.Writer, cfg *config.Config, path string) error {
	logger, closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Path(), console)
	if err != nil {
		return withCode(app.ExitFailure, err)
	}
	defer closeLog()

	logger = logger.With("run_id", uuid.NewString())

	session := httpclient.NewSession(httpclient.SessionConfig{
		MaxRetries:     cfg.HTTP.MaxRetries,
		BackoffFactor:  cfg.HTTP.BackoffFactor,
		MaxBackoff:     cfg.HTTP.MaxBackoff,
		ConnectTimeout: cfg.HTTP.ConnectTimeout,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		UserAgent:      cfg.HTTP.UserAgent,
		Logger:         logger,
	})
	submitter := userapi.NewSubmitter(session, userapi.SubmitterConfig{
		Endpoint: cfg.Import.Endpoint,
		DryRun:   cfg.Import.DryRun,
	}, logger)

	return process(ctx, logger, submitter, cfg.Import.RowDelay, path,
		"Starting user provisioning", "endpoint", cfg.Import.Endpoint, "dry_run", cfg.Import.DryRun)
}

// process runs one file through a Processor, logs the summary and turns the
// outcome into an exit status. A panic is logged with the counters reached so
// far and ends the run with ExitFailure.
func process(ctx context.Context, logger *slog.Logger, submitter app.RowSubmitter, delay time.Duration, path, startMsg string, attrs ...any) (err error) {
	processor := app.NewProcessor(file.NewLocalSource(""), submitter, app.ProcessorConfig{RowDelay: delay}, logger)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Fatal error", "error", fmt.Sprint(r))
			app.LogSummary(logger, processor.Stats())
			err = withCode(app.ExitFailure, fmt.Errorf("fatal error: %v", r))
		}
	}()
	defer func() {
		if err := processor.Close(); err != nil {
			logger.Warn("Failed to close HTTP session", "error", err)
		}
	}()

	logger.Info(startMsg, append([]any{"file", path}, attrs...)...)

	stats := processor.ProcessFile(ctx, path)
	if processor.Interrupted() {
		logger.Info("Import interrupted by user")
	}
	app.LogSummary(logger, stats)

	if code := app.ExitCode(stats, processor.Interrupted()); code != app.ExitOK {
		return withCode(code, nil)
	}
	return nil
}
