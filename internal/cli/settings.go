package cli

import (
	"fmt"
	"strconv"

	"github.com/getto-dev/smeta/internal/domain"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage estimate settings",
	Long:  `Show and change the object address and the service discount.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := appInstance.Store.Settings()

		address := settings.Address
		if address == "" {
			address = "не указан"
		}
		fmt.Printf("Объект:  %s\n", address)
		fmt.Printf("Скидка:  %d%%\n", settings.Discount)
		fmt.Printf("Тема:    %s\n", appInstance.Store.ThemeMode())
		return nil
	},
}

var settingsAddressCmd = &cobra.Command{
	Use:   "address [address]",
	Short: "Set the object address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		appInstance.Store.UpdateSettings(domain.SettingsPatch{Address: &address})
		fmt.Printf("✓ Address set: %s\n", address)
		return nil
	},
}

var settingsDiscountCmd = &cobra.Command{
	Use:   "discount [percent]",
	Short: "Set the service discount (0-50)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		discount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid discount: %w", err)
		}
		if discount < 0 || discount > domain.MaxDiscount {
			return fmt.Errorf("discount must be between 0 and %d", domain.MaxDiscount)
		}

		appInstance.Store.UpdateSettings(domain.SettingsPatch{Discount: &discount})
		fmt.Printf("✓ Discount set: %d%%\n", discount)
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Set the UI theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := domain.ThemeMode(args[0])
		switch mode {
		case domain.ThemeLight, domain.ThemeDark, domain.ThemeSystem:
		default:
			return fmt.Errorf("unknown theme: %s", args[0])
		}

		appInstance.Store.SetThemeMode(mode)
		fmt.Printf("✓ Theme set: %s\n", mode)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAddressCmd)
	settingsCmd.AddCommand(settingsDiscountCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
}
