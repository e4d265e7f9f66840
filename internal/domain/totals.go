package domain

import "math"

// CalculateTotals computes the invoice summary from scratch on every call.
// The discount applies to the services subtotal only; the discount amount is
// rounded half away from zero to whole currency units.
func CalculateTotals(items []InvoiceItem, settings Settings) Totals {
	var t Totals
	for _, item := range items {
		if item.Type == ItemTypeProduct {
			t.SubtotalProducts += item.Amount
		} else {
			t.SubtotalServices += item.Amount
		}
	}
	t.DiscountAmount = math.Round(t.SubtotalServices * float64(settings.Discount) / 100)
	t.GrandTotal = t.SubtotalServices - t.DiscountAmount + t.SubtotalProducts
	return t
}
