package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/store"
	"github.com/vin-jex/design-platform-client/internal/worker"
)

var (
	requestsState       string
	requestsLimit       int
	requestsWatch       string
	requestsConcurrency int
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect and resume jobs recorded in the local ledger",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireLedger()
	},
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var state *jobs.State
		if requestsState != "" {
			parsed := jobs.State(requestsState)
			if !parsed.Valid() {
				return fmt.Errorf("unknown state %q (pending|running|completed|failed)", requestsState)
			}
			state = &parsed
		}

		requests, err := ledger.ListRequests(cmd.Context(), state, requestsLimit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(requests)
		}
		for _, request := range requests {
			printRequest(request)
		}
		return nil
	},
}

var requestsShowCmd = &cobra.Command{
	Use:   "show <handle>",
	Short: "Show one recorded request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := ledger.GetRequest(cmd.Context(), jobs.Handle(args[0]))
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(request)
		}
		printRequest(*request)
		return printStatus(request.Status())
	},
}

var requestsResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Await every outstanding request, optionally on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool := worker.NewPool(requestsConcurrency, cfg.PollInterval, cfg.JobTimeout, logger)
		awaiters := func(statusEndpoint string) worker.Awaiter {
			return newJobClient(statusEndpoint, "")
		}

		if requestsWatch != "" {
			schedule, err := worker.ParseSchedule(requestsWatch)
			if err != nil {
				return err
			}
			return pool.Watch(cmd.Context(), ledger, awaiters, schedule, requestsLimit, func(outcomes []worker.Outcome) {
				_ = printOutcomes(outcomes)
			})
		}

		outcomes, err := pool.Resume(cmd.Context(), ledger, awaiters, requestsLimit)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Println("no outstanding requests")
			return nil
		}
		return printOutcomes(outcomes)
	},
}

func printRequest(request store.Request) {
	fmt.Printf("%s  %-9s  polls=%d  submit=%s  status=%s  updated=%s\n",
		request.Handle,
		request.State,
		request.PollCount,
		request.SubmitEndpoint,
		request.StatusEndpoint,
		request.UpdatedAt.Format(time.RFC3339),
	)
}

func init() {
	requestsCmd.PersistentFlags().IntVar(&requestsLimit, "limit", 50, "Max rows")
	requestsListCmd.Flags().StringVar(&requestsState, "state", "", "Filter by state (pending|running|completed|failed)")
	requestsResumeCmd.Flags().StringVar(&requestsWatch, "watch", "", `Keep resuming on a cron schedule until interrupted, e.g. "@every 1m"`)
	requestsResumeCmd.Flags().IntVar(&requestsConcurrency, "concurrency", worker.DefaultCapacity, "Handles awaited at once")

	requestsCmd.AddCommand(requestsListCmd, requestsShowCmd, requestsResumeCmd)
	rootCmd.AddCommand(requestsCmd)
}
