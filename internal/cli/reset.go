package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  smeta reset estimate    # Delete the saved estimate snapshot
  smeta reset catalog     # Delete the cached catalog feed
  smeta reset all         # Wipe everything`,
}

var resetEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Delete the saved estimate snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete the saved estimate (items and settings). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if _, err := appInstance.DB.Exec("DELETE FROM snapshots"); err != nil {
			return fmt.Errorf("failed to clear snapshots: %w", err)
		}

		fmt.Println("The saved estimate has been deleted. Restart smeta to start fresh.")
		return nil
	},
}

var resetCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Delete the cached catalog feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := appInstance.DB.Exec("DELETE FROM catalog_cache"); err != nil {
			return fmt.Errorf("failed to clear catalog cache: %w", err)
		}

		fmt.Println("The cached catalog has been deleted. It will be refetched on next use.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: estimate, settings, cached catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data (estimate, settings, cached catalog). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		tables := []string{
			"snapshots",
			"catalog_cache",
		}

		for _, table := range tables {
			if _, err := appInstance.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetEstimateCmd)
	resetCmd.AddCommand(resetCatalogCmd)
	resetCmd.AddCommand(resetAllCmd)
}
