package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/reports"
)

var (
	reportDesignBranch string
	reportCommands     []string
	reportLegacyJSON   bool
	reportListCommands bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate pricing, BOQ, cutlist and manufacturing outputs for a design branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportListCommands {
			for _, command := range reports.Commands() {
				fmt.Println(command)
			}
			return nil
		}

		service := reports.NewService(caller, cfg.ServerPath, cfg.PollInterval, cfg.JobTimeout, jobOptions()...)

		var (
			output reports.Output
			err    error
		)
		if reportLegacyJSON {
			output, err = service.GenerateLegacyPricingJSON(cmd.Context(), reportDesignBranch)
		} else {
			request := reports.Request{DesignBranchID: reportDesignBranch}
			for _, name := range reportCommands {
				command, err := reports.ParseCommand(name)
				if err != nil {
					return err
				}
				request.Commands = append(request.Commands, command)
			}
			output, err = service.Generate(cmd.Context(), request)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(output)
		}
		fmt.Println(output.URL)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDesignBranch, "design-branch", "", "Design branch id")
	reportCmd.Flags().StringSliceVar(&reportCommands, "command", nil, "Output command, repeatable (see --list-commands)")
	reportCmd.Flags().BoolVar(&reportLegacyJSON, "legacy-json", false, "Use the legacy JSON pricing quotation endpoints")
	reportCmd.Flags().BoolVar(&reportListCommands, "list-commands", false, "Print the known output commands")
	rootCmd.AddCommand(reportCmd)
}
