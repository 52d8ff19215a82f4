package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/cabinets"
)

var cabinetsManifest string

var cabinetsCmd = &cobra.Command{
	Use:   "cabinets",
	Short: "Cabinet SKU operations",
}

var cabinetsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create cabinet SKUs from a manifest and wait for their ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		skus, err := cabinets.LoadManifest(cabinetsManifest)
		if err != nil {
			return err
		}

		ids, err := cabinets.NewService(caller, cfg.PollInterval, cfg.JobTimeout, jobOptions()...).Create(cmd.Context(), skus)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(ids)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	cabinetsCreateCmd.Flags().StringVar(&cabinetsManifest, "file", "skus.yaml", "SKU manifest (YAML or JSON)")

	cabinetsCmd.AddCommand(cabinetsCreateCmd)
	rootCmd.AddCommand(cabinetsCmd)
}
