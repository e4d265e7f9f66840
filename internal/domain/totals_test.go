package domain

import "testing"

func TestCalculateTotals(t *testing.T) {
	items := []InvoiceItem{
		{Type: ItemTypeService, Quantity: 2, Price: 1000, Amount: 2000},
		{Type: ItemTypeProduct, Quantity: 1, Price: 500, Amount: 500},
	}
	settings := Settings{Discount: 10}

	totals := CalculateTotals(items, settings)

	if totals.SubtotalServices != 2000 {
		t.Fatalf("expected services subtotal 2000, got %v", totals.SubtotalServices)
	}
	if totals.SubtotalProducts != 500 {
		t.Fatalf("expected products subtotal 500, got %v", totals.SubtotalProducts)
	}
	if totals.DiscountAmount != 200 {
		t.Fatalf("expected discount 200, got %v", totals.DiscountAmount)
	}
	if totals.GrandTotal != 2300 {
		t.Fatalf("expected grand total 2300, got %v", totals.GrandTotal)
	}
}

func TestCalculateTotalsDiscountIgnoresProducts(t *testing.T) {
	items := []InvoiceItem{
		{Type: ItemTypeProduct, Quantity: 4, Price: 250, Amount: 1000},
	}
	totals := CalculateTotals(items, Settings{Discount: 50})

	if totals.DiscountAmount != 0 {
		t.Fatalf("discount should not apply to products, got %v", totals.DiscountAmount)
	}
	if totals.GrandTotal != 1000 {
		t.Fatalf("expected grand total 1000, got %v", totals.GrandTotal)
	}
}

func TestCalculateTotalsRoundsHalfUp(t *testing.T) {
	// 1050 * 5% = 52.5, which must round to 53, not 52.
	items := []InvoiceItem{
		{Type: ItemTypeService, Quantity: 1, Price: 1050, Amount: 1050},
	}
	totals := CalculateTotals(items, Settings{Discount: 5})

	if totals.DiscountAmount != 53 {
		t.Fatalf("expected discount 53 at the .5 boundary, got %v", totals.DiscountAmount)
	}
	if totals.GrandTotal != 997 {
		t.Fatalf("expected grand total 997, got %v", totals.GrandTotal)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil, Settings{Discount: 10})
	if totals.GrandTotal != 0 || totals.DiscountAmount != 0 {
		t.Fatalf("expected zero totals for empty invoice, got %+v", totals)
	}
}
