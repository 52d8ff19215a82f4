package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin-jex/design-platform-client/internal/catalog"
)

var (
	inventoryBusinessUnit string
	inventoryConfirm      bool
)

func catalogService() *catalog.Service {
	return catalog.NewService(caller, cfg.StoreID, logger)
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inspect and prune the store's SKU hierarchy",
}

var inventoryTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print divisions, categories and sub-categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		divisions, err := catalogService().GetAllSubCategories(cmd.Context(), inventoryBusinessUnit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(divisions)
		}
		for _, division := range divisions {
			fmt.Println(division.ID)
			for _, category := range division.Categories {
				fmt.Printf("  %s  %s  store=%s\n", category.ID, category.Name, category.StoreID)
				for _, subCategory := range category.SubCategories {
					fmt.Printf("    %s  %s  store=%s\n", subCategory.ID, subCategory.Name, subCategory.StoreID)
				}
			}
		}
		return nil
	},
}

var inventoryRemoveSubCategoryCmd = &cobra.Command{
	Use:   "remove-sub-category <id>",
	Short: "Remove a sub-category with its groups and SKUs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := catalogService().RemoveSubCategoryTree(cmd.Context(), args[0], inventoryBusinessUnit)
		printRemoval(report)
		return err
	},
}

var inventoryRemoveAllCmd = &cobra.Command{
	Use:   "remove-all",
	Short: "Remove every SKU, group, sub-category and category from the business unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !inventoryConfirm {
			return errors.New("refusing to remove the whole inventory without --yes")
		}

		report, err := catalogService().RemoveInventory(cmd.Context(), inventoryBusinessUnit)
		printRemoval(report)
		return err
	},
}

func printRemoval(report catalog.RemovalReport) {
	if jsonOutput {
		_ = printJSON(report)
		return
	}
	fmt.Printf("removed skus=%d groups=%d sub_categories=%d categories=%d\n",
		report.SKUs, report.Groups, report.SubCategories, report.Categories)
}

func init() {
	inventoryCmd.PersistentFlags().StringVar(&inventoryBusinessUnit, "business-unit", "", "Business unit id (default: the store's default)")
	inventoryRemoveAllCmd.Flags().BoolVar(&inventoryConfirm, "yes", false, "Confirm removal")

	inventoryCmd.AddCommand(inventoryTreeCmd, inventoryRemoveSubCategoryCmd, inventoryRemoveAllCmd)
	rootCmd.AddCommand(inventoryCmd)
}
