package domain

import (
	"encoding/json"
	"testing"
)

func TestCompressDecompressManualRoundTrip(t *testing.T) {
	item := InvoiceItem{
		ID:          1700000000123,
		Name:        "Монтаж смесителя",
		Description: "со сборкой",
		Quantity:    3,
		Price:       1500,
		Unit:        DefaultUnit,
		Type:        ItemTypeService,
		Category:    CategoryManual,
		Amount:      4500,
	}

	got := Decompress(Compress(item), 0)
	if got != item {
		t.Fatalf("manual item did not round-trip:\n got %+v\nwant %+v", got, item)
	}
}

func TestCompressDecompressCatalogRoundTrip(t *testing.T) {
	item := InvoiceItem{
		ID:          1700000000456,
		CatalogID:   "heating_12",
		Name:        "Монтаж радиатора",
		Description: "стальной панельный",
		Quantity:    2,
		Price:       3500,
		Unit:        DefaultUnit,
		Type:        ItemTypeService,
		Category:    "heating",
		Amount:      7000,
	}

	got := Decompress(Compress(item), 0)

	// The compact "i" key holds the catalog ID for catalog lines, so the
	// numeric ID cannot survive; everything else must.
	if got.ID == 0 {
		t.Fatalf("expected a fallback ID, got zero")
	}
	got.ID = item.ID
	if got != item {
		t.Fatalf("catalog item did not round-trip:\n got %+v\nwant %+v", got, item)
	}
}

func TestDecompressDefaults(t *testing.T) {
	// A record missing q, p, u, t, c and a degrades to documented defaults.
	rec := CompressedItem{ID: "heating_01", Name: "Опрессовка"}

	item := Decompress(rec, 0)

	if item.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", item.Quantity)
	}
	if item.Price != 0 {
		t.Fatalf("expected default price 0, got %v", item.Price)
	}
	if item.Unit != DefaultUnit {
		t.Fatalf("expected default unit %q, got %q", DefaultUnit, item.Unit)
	}
	if item.Type != ItemTypeService {
		t.Fatalf("expected default type service, got %q", item.Type)
	}
	if item.Category != "" {
		t.Fatalf("expected empty category, got %q", item.Category)
	}
	if item.Amount != 0 {
		t.Fatalf("expected recomputed amount 0, got %v", item.Amount)
	}
	if item.CatalogID != "heating_01" {
		t.Fatalf("expected catalog ID preserved, got %q", item.CatalogID)
	}
}

func TestDecompressRecomputesMissingAmount(t *testing.T) {
	rec := CompressedItem{
		ID:       "water_03",
		Name:     "Установка фильтра",
		Quantity: ptr(2),
		Price:    ptr(800.0),
	}

	item := Decompress(rec, 0)
	if item.Amount != 1600 {
		t.Fatalf("expected amount 2*800=1600, got %v", item.Amount)
	}
}

func TestDecompressFallbackIDsUniqueWithinBatch(t *testing.T) {
	records := []CompressedItem{
		{ID: "a_1", Name: "x"},
		{ID: "a_2", Name: "y"},
		{ID: "a_3", Name: "z"},
	}

	items := DecompressItems(records)
	seen := make(map[int64]bool)
	for _, item := range items {
		if seen[item.ID] {
			t.Fatalf("duplicate fallback ID %d in one import batch", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestCompressedItemJSONKeys(t *testing.T) {
	item := InvoiceItem{
		ID:       42,
		Name:     "Чистка сифона",
		Quantity: 1,
		Price:    500,
		Unit:     DefaultUnit,
		Type:     ItemTypeService,
		Category: CategoryManual,
		Amount:   500,
	}

	raw, err := json.Marshal(Compress(item))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"i", "n", "d", "q", "p", "u", "t", "c", "a"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("compressed JSON missing key %q: %s", k, raw)
		}
	}
	if string(keys["i"]) != `"42"` {
		t.Fatalf("expected stringified numeric ID in \"i\", got %s", keys["i"])
	}
}
