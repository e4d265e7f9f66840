package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getto-dev/smeta/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the estimate as a printable HTML invoice",
	Long: `Export the current estimate as a self-contained HTML invoice.

The document embeds the estimate data, so an exported file can be imported
back later with 'smeta import'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items := appInstance.Store.Items()
		if len(items) == 0 {
			return fmt.Errorf("the estimate is empty, nothing to export")
		}

		doc, filename, err := export.Render(items, appInstance.Store.Settings(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to render invoice: %w", err)
		}

		dir := appInstance.Config.Export.OutputDir
		if cmd.Flags().Changed("out") {
			dir, _ = cmd.Flags().GetString("out")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return fmt.Errorf("failed to write invoice: %w", err)
		}

		fmt.Printf("✓ Invoice exported: %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an estimate from an exported HTML invoice",
	Long: `Import an estimate from an HTML invoice previously produced by 'smeta export'.

The current estimate is replaced with the imported one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contents, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		items, settings, err := export.Parse(contents, appInstance.Store.Settings())
		if err != nil {
			return fmt.Errorf("failed to import estimate: %w", err)
		}

		if len(appInstance.Store.Items()) > 0 {
			if !confirmPrompt("This will replace the current estimate. Continue?") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		appInstance.Store.Import(items, settings)
		fmt.Printf("✓ Imported %d line(s)\n", len(items))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output directory (defaults to the configured export directory)")
}
