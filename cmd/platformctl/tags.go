package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/catalog"
)

var (
	tagsSKU    string
	tagsIDs    []string
	rendersAll bool
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Create tags and attach them to SKUs",
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag and print its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := catalogService().CreateTag(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var tagsAttachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach tags to a SKU",
	RunE: func(cmd *cobra.Command, args []string) error {
		return catalogService().AttachTagsToSKU(cmd.Context(), tagsSKU, tagsIDs)
	},
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tags on a SKU",
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := catalogService().GetTagsOnSKU(cmd.Context(), tagsSKU)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tags)
		}
		for _, tag := range tags {
			fmt.Printf("%s  %s\n", tag.ID, tag.Name)
		}
		return nil
	},
}

var rendersCmd = &cobra.Command{
	Use:   "renders <design-id>",
	Short: "List completed renders of a design",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		renders, err := catalogService().GetRendersForDesign(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !rendersAll {
			renders = catalog.CompletedRenders(renders)
		}

		if jsonOutput {
			return printJSON(renders)
		}
		for _, render := range renders {
			fmt.Printf("%s  %-9s  %s\n", render.ID, render.Status, render.PublicURL())
		}
		return nil
	},
}

func init() {
	tagsCmd.PersistentFlags().StringVar(&tagsSKU, "sku", "", "SKU id")
	tagsAttachCmd.Flags().StringSliceVar(&tagsIDs, "tag", nil, "Tag id, repeatable")
	_ = tagsAttachCmd.MarkFlagRequired("tag")

	rendersCmd.Flags().BoolVar(&rendersAll, "all", false, "Include renders that are not completed")

	tagsCmd.AddCommand(tagsCreateCmd, tagsAttachCmd, tagsListCmd)
	rootCmd.AddCommand(tagsCmd, rendersCmd)
}
