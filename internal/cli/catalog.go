package cli

import (
	"context"
	"fmt"

	"github.com/getto-dev/smeta/internal/export"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the service catalog",
	Long:  `List categories, list services within a category, and search the catalog.`,
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cat := appInstance.Catalog.Load(ctx)

		fmt.Printf("%-15s %s\n", "ID", "Name")
		fmt.Println("--------------------------------------------------")
		for _, c := range cat.Categories() {
			fmt.Printf("%-15s %s\n", c.ID, c.Name)
		}
		if v := cat.Version(); v != "" {
			fmt.Printf("\nCatalog version: %s (updated %s)\n", v, cat.Updated())
		}
		return nil
	},
}

var catalogItemsCmd = &cobra.Command{
	Use:   "items [category]",
	Short: "List services in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cat := appInstance.Catalog.Load(ctx)

		items := cat.ItemsByCategory(args[0])
		if len(items) == 0 {
			fmt.Println("No services found in this category")
			return nil
		}

		fmt.Printf("%-15s %-40s %-8s %s\n", "ID", "Name", "Unit", "Price")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, item := range items {
			fmt.Printf("%-15s %-40s %-8s %s\n",
				item.ID,
				truncate(item.Name, 40),
				item.Unit,
				export.FormatCurrency(item.Price),
			)
		}

		fmt.Printf("\nTotal: %d service(s)\n", len(items))
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search services by name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cat := appInstance.Catalog.Load(ctx)

		matches := cat.Search(args[0])
		if len(matches) == 0 {
			fmt.Println("No matches found")
			return nil
		}

		fmt.Printf("%-15s %-40s %s\n", "ID", "Name", "Price")
		fmt.Println("----------------------------------------------------------------------")
		for _, item := range matches {
			fmt.Printf("%-15s %-40s %s\n",
				item.ID,
				truncate(item.Name, 40),
				export.FormatCurrency(item.Price),
			)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogItemsCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
