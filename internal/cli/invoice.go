package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/getto-dev/smeta/internal/domain"
	"github.com/getto-dev/smeta/internal/export"
	"github.com/spf13/cobra"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage the current estimate",
	Long:  `Show the current estimate, add and remove lines, and change quantities.`,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := appInstance.Store.Items()
		if len(items) == 0 {
			fmt.Println("The estimate is empty")
			return nil
		}

		fmt.Printf("%-15s %-40s %-9s %-5s %-10s %s\n", "ID", "Name", "Type", "Qty", "Price", "Amount")
		fmt.Println("--------------------------------------------------------------------------------------------")
		for _, item := range items {
			fmt.Printf("%-15d %-40s %-9s %-5d %-10s %s\n",
				item.ID,
				truncate(item.Name, 40),
				item.Type,
				item.Quantity,
				export.FormatCurrency(item.Price),
				export.FormatCurrency(item.Amount),
			)
		}

		settings := appInstance.Store.Settings()
		totals := appInstance.Store.Totals()

		fmt.Println()
		fmt.Printf("Услуги:    %s\n", export.FormatCurrency(totals.SubtotalServices))
		fmt.Printf("Материалы: %s\n", export.FormatCurrency(totals.SubtotalProducts))
		if settings.Discount > 0 {
			fmt.Printf("Скидка на работы (%d%%): -%s\n", settings.Discount, export.FormatCurrency(totals.DiscountAmount))
		}
		fmt.Printf("ИТОГО:     %s\n", export.FormatCurrency(totals.GrandTotal))
		return nil
	},
}

var invoiceAddCmd = &cobra.Command{
	Use:   "add [catalog-id]",
	Short: "Add a catalog service to the estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cat := appInstance.Catalog.Load(ctx)

		item, ok := cat.Lookup(args[0])
		if !ok {
			return fmt.Errorf("service not found in catalog: %s", args[0])
		}

		quantity, _ := cmd.Flags().GetInt("qty")
		price := item.Price
		if cmd.Flags().Changed("price") {
			price, _ = cmd.Flags().GetFloat64("price")
		}

		appInstance.Store.AddCatalogItem(item, quantity, price)

		fmt.Printf("✓ Added: %s x%d at %s\n", item.Name, quantity, export.FormatCurrency(price))
		return nil
	},
}

var invoiceManualCmd = &cobra.Command{
	Use:   "manual [name]",
	Short: "Add a manual line to the estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetFloat64("price")
		quantity, _ := cmd.Flags().GetInt("qty")
		description, _ := cmd.Flags().GetString("desc")
		unit, _ := cmd.Flags().GetString("unit")
		product, _ := cmd.Flags().GetBool("product")

		if product {
			appInstance.Store.SetManualType(domain.ItemTypeProduct)
		} else {
			appInstance.Store.SetManualType(domain.ItemTypeService)
		}

		appInstance.Store.AddManualItem(domain.ManualItemInput{
			Name:        args[0],
			Description: description,
			Quantity:    quantity,
			Price:       price,
			Unit:        unit,
		})

		fmt.Printf("✓ Added manual line: %s x%d at %s\n", args[0], quantity, export.FormatCurrency(price))
		return nil
	},
}

var invoiceQtyCmd = &cobra.Command{
	Use:   "qty [id] [delta]",
	Short: "Change a line's quantity by a delta (can be negative)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line ID: %w", err)
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta: %w", err)
		}

		appInstance.Store.UpdateQuantity(id, delta)
		fmt.Println("✓ Quantity updated")
		return nil
	},
}

var invoiceRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a line from the estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line ID: %w", err)
		}

		appInstance.Store.RemoveItem(id)
		fmt.Println("✓ Line removed")
		return nil
	},
}

var invoiceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all lines from the estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will remove ALL lines from the estimate. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		appInstance.Store.ClearItems()
		fmt.Println("The estimate has been cleared.")
		return nil
	},
}

func init() {
	invoiceCmd.AddCommand(invoiceShowCmd)
	invoiceCmd.AddCommand(invoiceAddCmd)
	invoiceCmd.AddCommand(invoiceManualCmd)
	invoiceCmd.AddCommand(invoiceQtyCmd)
	invoiceCmd.AddCommand(invoiceRemoveCmd)
	invoiceCmd.AddCommand(invoiceClearCmd)

	// Add flags
	invoiceAddCmd.Flags().Int("qty", 1, "Quantity")
	invoiceAddCmd.Flags().Float64("price", 0, "Override the catalog price")

	// Manual flags
	invoiceManualCmd.Flags().Float64("price", 0, "Unit price (required)")
	invoiceManualCmd.MarkFlagRequired("price")
	invoiceManualCmd.Flags().Int("qty", 1, "Quantity")
	invoiceManualCmd.Flags().String("desc", "", "Line description")
	invoiceManualCmd.Flags().String("unit", domain.DefaultUnit, "Unit of measure")
	invoiceManualCmd.Flags().Bool("product", false, "Add as a material instead of a service")
}
