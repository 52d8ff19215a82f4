package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/cabinets"
	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/observability"
	"github.com/vin-jex/design-platform-client/internal/reports"
	"github.com/vin-jex/design-platform-client/internal/store"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

var errLedgerDisabled = errors.New("request ledger is disabled: set DATABASE_URL")

var (
	envFile    string
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
	caller *transport.Client
	ledger *store.Store
)

var rootCmd = &cobra.Command{
	Use:           "platformctl",
	Short:         "Submit and track jobs on the design platform's enterprise API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		loaded, err := config.FromEnv()
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger = observability.NewLoggerWithWriter("platformctl", os.Stderr, cfg.LogLevel)
		caller = transport.New(cfg)

		if cfg.DatabaseURL == "" {
			return nil
		}

		ctx := cmd.Context()
		opened, err := store.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open request ledger: %w", err)
		}
		if err := opened.Migrate(ctx); err != nil {
			opened.Close()
			return fmt.Errorf("migrate request ledger: %w", err)
		}
		ledger = opened
		onExit(opened.Close)

		return nil
	},
}

var cleanups []func()

// onExit registers fn to run after the command finishes, even when it
// fails. cobra skips PersistentPostRun on error.
func onExit(fn func()) {
	cleanups = append(cleanups, fn)
}

// execute runs the command line with args and releases everything
// registered through onExit.
func execute(ctx context.Context, args []string) error {
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}()

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading PLATFORM_* variables")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")
}

// jobOptions returns the options every job client is built with. When the
// ledger is enabled, submissions and observations are recorded in it;
// ledger failures are logged and never fail the job itself.
func jobOptions() []jobs.Option {
	opts := []jobs.Option{
		jobs.WithLogger(logger),
		jobs.WithPollInterval(cfg.PollInterval),
	}

	if ledger == nil {
		return opts
	}

	return append(opts,
		jobs.WithSubmitHook(func(ctx context.Context, statusEndpoint string, request jobs.JobRequest, handle jobs.Handle) {
			if err := ledger.RecordSubmission(ctx, handle, request.Endpoint, statusEndpoint, request.Payload); err != nil {
				logger.WarnContext(ctx, "record submission failed", "request_batch_id", handle.String(), "error", err)
			}
		}),
		jobs.WithStatusHook(func(ctx context.Context, status jobs.Status) {
			if err := ledger.RecordObservation(ctx, status); err != nil {
				logger.WarnContext(ctx, "record observation failed", "request_batch_id", status.Handle.String(), "error", err)
			}
		}),
	)
}

// resultFields maps the status endpoints this tool knows to the field
// carrying their completed result.
var resultFields = map[string]string{
	reports.StatusEndpoint:              reports.OutputField,
	reports.LegacyPricingStatusEndpoint: reports.OutputField,
	cabinets.StatusEndpoint:             cabinets.SKUIDsField,
}

// newJobClient builds a client for statusEndpoint. An empty resultField
// falls back to the known field for the endpoint, then to "result".
func newJobClient(statusEndpoint, resultField string) *jobs.Client {
	opts := jobOptions()

	if resultField == "" {
		resultField = resultFields[statusEndpoint]
	}
	if resultField != "" {
		opts = append(opts, jobs.WithResultField(resultField))
	}

	return jobs.New(caller, statusEndpoint, opts...)
}

func requireLedger() error {
	if ledger == nil {
		return errLedgerDisabled
	}
	return nil
}
