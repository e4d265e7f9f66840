package tui

import "github.com/getto-dev/smeta/internal/export"

// formatMoney formats a ruble amount with non-breaking thousand separators
func formatMoney(amount float64) string {
	return export.FormatCurrency(amount)
}

// truncateStr truncates a string to the specified rune length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
