package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/worker"
)

var (
	jobStatusEndpoint string
	jobResultField    string
	jobBodyFile       string
	jobSubmitEndpoint string
	jobAwait          bool
	jobInterval       time.Duration
	jobTimeout        time.Duration
	jobConcurrency    int
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Submit, poll and await raw platform jobs",
}

var jobSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a job and print its request_batch_id",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readBody(jobBodyFile)
		if err != nil {
			return err
		}

		client := newJobClient(jobStatusEndpoint, jobResultField)
		request := jobs.JobRequest{Endpoint: jobSubmitEndpoint, Payload: body}

		if !jobAwait {
			handle, err := client.Submit(cmd.Context(), request)
			if err != nil {
				return err
			}
			fmt.Println(handle)
			return nil
		}

		status, err := client.Run(cmd.Context(), request, awaitInterval(), awaitTimeout())
		if err != nil {
			return err
		}
		return printStatus(status)
	},
}

var jobPollCmd = &cobra.Command{
	Use:   "poll <handle>",
	Short: "Query a job's status once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newJobClient(jobStatusEndpoint, jobResultField).Poll(cmd.Context(), jobs.Handle(args[0]))
		if err != nil {
			return err
		}
		return printStatus(status)
	},
}

var jobAwaitCmd = &cobra.Command{
	Use:   "await <handle>...",
	Short: "Wait for one or more jobs to finish",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handles := make([]jobs.Handle, len(args))
		for i, arg := range args {
			handles[i] = jobs.Handle(arg)
		}

		pool := worker.NewPool(jobConcurrency, awaitInterval(), awaitTimeout(), logger)
		outcomes := pool.AwaitAll(cmd.Context(), newJobClient(jobStatusEndpoint, jobResultField), handles)

		return printOutcomes(outcomes)
	},
}

func awaitInterval() time.Duration {
	if jobInterval > 0 {
		return jobInterval
	}
	return cfg.PollInterval
}

func awaitTimeout() time.Duration {
	if jobTimeout > 0 {
		return jobTimeout
	}
	return cfg.JobTimeout
}

// printOutcomes prints every outcome and fails when any await failed.
func printOutcomes(outcomes []worker.Outcome) error {
	var failed int

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Printf("%s  error=%q\n", outcome.Handle, outcome.Err.Error())
			continue
		}
		if err := printStatus(outcome.Status); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d awaits failed", failed, len(outcomes))
	}
	return nil
}

func init() {
	jobCmd.PersistentFlags().StringVar(&jobStatusEndpoint, "status-endpoint", "jobs/status", "Status endpoint the handle is polled on")
	jobCmd.PersistentFlags().StringVar(&jobResultField, "result-field", "", "Field carrying the completed result (defaults per known endpoint)")
	jobCmd.PersistentFlags().DurationVar(&jobInterval, "interval", 0, "Poll interval (default PLATFORM_POLL_INTERVAL)")
	jobCmd.PersistentFlags().DurationVar(&jobTimeout, "timeout", 0, "Await timeout (default PLATFORM_JOB_TIMEOUT)")

	jobSubmitCmd.Flags().StringVar(&jobSubmitEndpoint, "endpoint", "jobs/create", "Submit endpoint")
	jobSubmitCmd.Flags().StringVar(&jobBodyFile, "body", "-", "JSON or YAML body file, - for stdin")
	jobSubmitCmd.Flags().BoolVar(&jobAwait, "await", false, "Wait for the job to finish")

	jobAwaitCmd.Flags().IntVar(&jobConcurrency, "concurrency", worker.DefaultCapacity, "Handles awaited at once")

	jobCmd.AddCommand(jobSubmitCmd, jobPollCmd, jobAwaitCmd)
	rootCmd.AddCommand(jobCmd)
}
