package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/getto-dev/smeta/internal/domain"
	"github.com/getto-dev/smeta/internal/storage"
)

// mock snapshot store
type mockSnapshots struct {
	stored    []byte
	loadErr   error
	saveErr   error
	saveCount int
}

func (m *mockSnapshots) Load(ctx context.Context) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stored, nil
}

func (m *mockSnapshots) Save(ctx context.Context, payload []byte) error {
	m.saveCount++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = payload
	return nil
}

func newTestStore() (*Store, *mockSnapshots) {
	snaps := &mockSnapshots{loadErr: storage.ErrNoSnapshot}
	s := New(snaps, zerolog.Nop())
	s.Hydrate(context.Background())
	return s, snaps
}

func catalogItem(id string, price float64) domain.CatalogItem {
	return domain.CatalogItem{
		ID:         id,
		Name:       "Монтаж радиатора",
		Unit:       domain.DefaultUnit,
		Price:      price,
		CategoryID: "heating",
	}
}

func TestAddCatalogItemMergesSamePrice(t *testing.T) {
	s, _ := newTestStore()

	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)
	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if items[0].Amount != 200 {
		t.Fatalf("expected amount 200, got %v", items[0].Amount)
	}
}

func TestAddCatalogItemPriceOverrideMakesNewLine(t *testing.T) {
	s, _ := newTestStore()

	s.AddCatalogItem(catalogItem("heating_01", 100), 2, 100)
	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 150)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected two distinct lines, got %d", len(items))
	}
	if items[0].Price == items[1].Price {
		t.Fatalf("expected different prices, got %v and %v", items[0].Price, items[1].Price)
	}
}

func TestUpdateQuantityClampsAndRecalculates(t *testing.T) {
	s, _ := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 500), 3, 500)
	id := s.Items()[0].ID

	s.UpdateQuantity(id, -100)

	items := s.Items()
	if items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", items[0].Quantity)
	}
	if items[0].Amount != 500 {
		t.Fatalf("expected amount 500, got %v", items[0].Amount)
	}
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	s, snaps := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 500), 1, 500)
	before := snaps.saveCount

	s.UpdateQuantity(999999, 5)

	if snaps.saveCount != before {
		t.Fatalf("no-op must not persist")
	}
	if s.Items()[0].Quantity != 1 {
		t.Fatalf("unexpected change on unknown id")
	}
}

func TestAmountInvariantAfterMutations(t *testing.T) {
	s, _ := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 350), 2, 350)
	s.AddManualItem(domain.ManualItemInput{Name: "Герметик", Quantity: 3, Price: 120})
	id := s.Items()[0].ID
	s.UpdateQuantity(id, 4)

	for _, item := range s.Items() {
		if item.Amount != float64(item.Quantity)*item.Price {
			t.Fatalf("amount invariant broken: %+v", item)
		}
	}
}

func TestAddManualItemNeverMerges(t *testing.T) {
	s, _ := newTestStore()
	input := domain.ManualItemInput{Name: "Прокладка", Quantity: 1, Price: 50}

	s.AddManualItem(input)
	s.AddManualItem(input)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("manual lines must not merge, got %d", len(items))
	}
	if items[0].Category != domain.CategoryManual {
		t.Fatalf("expected manual category, got %q", items[0].Category)
	}
}

func TestAddManualItemUsesManualType(t *testing.T) {
	s, _ := newTestStore()
	s.SetManualType(domain.ItemTypeProduct)

	s.AddManualItem(domain.ManualItemInput{Name: "Труба PPR", Quantity: 2, Price: 90})

	if got := s.Items()[0].Type; got != domain.ItemTypeProduct {
		t.Fatalf("expected product type, got %q", got)
	}
}

func TestRemoveItem(t *testing.T) {
	s, _ := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)
	s.AddCatalogItem(catalogItem("heating_02", 200), 1, 200)
	id := s.Items()[0].ID

	s.RemoveItem(id)

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line left, got %d", len(items))
	}
	if items[0].CatalogID != "heating_02" {
		t.Fatalf("removed the wrong line: %+v", items[0])
	}

	// Removing again is a no-op
	s.RemoveItem(id)
	if len(s.Items()) != 1 {
		t.Fatalf("remove of absent id must be a no-op")
	}
}

func TestClearItemsKeepsSettings(t *testing.T) {
	s, _ := newTestStore()
	addr := "ул. Ленина, 5"
	disc := 10
	s.UpdateSettings(domain.SettingsPatch{Address: &addr, Discount: &disc})
	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)

	s.ClearItems()

	if len(s.Items()) != 0 {
		t.Fatalf("expected empty items")
	}
	if got := s.Settings(); got.Address != addr || got.Discount != disc {
		t.Fatalf("settings must survive clear, got %+v", got)
	}
}

func TestImportReplacesState(t *testing.T) {
	s, _ := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)

	imported := []domain.InvoiceItem{
		{ID: 1, Name: "Чистка", Quantity: 1, Price: 700, Unit: domain.DefaultUnit, Type: domain.ItemTypeService, Amount: 700},
	}
	s.Import(imported, domain.Settings{Address: "A", Discount: 10})

	items := s.Items()
	if len(items) != 1 || items[0].Name != "Чистка" {
		t.Fatalf("import must replace items wholesale, got %+v", items)
	}
	if got := s.Settings(); got.Address != "A" || got.Discount != 10 {
		t.Fatalf("import must replace settings, got %+v", got)
	}
}

func TestUpdateSettingsPartial(t *testing.T) {
	s, _ := newTestStore()
	addr := "Объект 1"
	s.UpdateSettings(domain.SettingsPatch{Address: &addr})

	disc := 25
	s.UpdateSettings(domain.SettingsPatch{Discount: &disc})

	got := s.Settings()
	if got.Address != addr {
		t.Fatalf("address lost by partial update: %+v", got)
	}
	if got.Discount != disc {
		t.Fatalf("discount not applied: %+v", got)
	}
}

func TestEveryMutationPersists(t *testing.T) {
	s, snaps := newTestStore()

	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)
	id := s.Items()[0].ID
	s.UpdateQuantity(id, 1)
	s.RemoveItem(id)
	s.ClearItems()
	addr := "x"
	s.UpdateSettings(domain.SettingsPatch{Address: &addr})

	if snaps.saveCount != 5 {
		t.Fatalf("expected 5 snapshot writes, got %d", snaps.saveCount)
	}
}

func TestPersistFailureDoesNotBlockMutation(t *testing.T) {
	snaps := &mockSnapshots{loadErr: storage.ErrNoSnapshot, saveErr: errors.New("disk full")}
	s := New(snaps, zerolog.Nop())
	s.Hydrate(context.Background())

	s.AddCatalogItem(catalogItem("heating_01", 100), 1, 100)

	if len(s.Items()) != 1 {
		t.Fatalf("mutation must survive a failed snapshot write")
	}
}

func TestHydrateRestoresCompactSnapshot(t *testing.T) {
	first, snaps := newTestStore()
	first.AddCatalogItem(catalogItem("heating_01", 3500), 2, 3500)
	addr := "пер. Садовый, 3"
	disc := 15
	first.UpdateSettings(domain.SettingsPatch{Address: &addr, Discount: &disc})
	first.SetThemeMode(domain.ThemeDark)

	snaps.loadErr = nil
	second := New(snaps, zerolog.Nop())
	if second.Hydrated() {
		t.Fatalf("store must not report hydrated before Hydrate")
	}
	second.Hydrate(context.Background())

	if !second.Hydrated() {
		t.Fatalf("store must report hydrated after Hydrate")
	}
	items := second.Items()
	if len(items) != 1 {
		t.Fatalf("expected one restored line, got %d", len(items))
	}
	if items[0].CatalogID != "heating_01" || items[0].Quantity != 2 || items[0].Amount != 7000 {
		t.Fatalf("restored line mismatch: %+v", items[0])
	}
	if got := second.Settings(); got.Address != addr || got.Discount != disc {
		t.Fatalf("settings not restored: %+v", got)
	}
	if second.ThemeMode() != domain.ThemeDark {
		t.Fatalf("theme mode not restored: %q", second.ThemeMode())
	}
}

func TestHydrateGarbageStartsEmpty(t *testing.T) {
	snaps := &mockSnapshots{stored: []byte("{{{not json")}
	s := New(snaps, zerolog.Nop())

	s.Hydrate(context.Background())

	if !s.Hydrated() {
		t.Fatalf("hydrate must complete even on garbage")
	}
	if len(s.Items()) != 0 {
		t.Fatalf("garbage snapshot must yield empty state")
	}
}

func TestHydrateLegacyItemsIgnored(t *testing.T) {
	// Items without the compact "i" key are not the wire form.
	raw, _ := json.Marshal(map[string]any{
		"items":    []map[string]any{{"name": "old", "quantity": 2}},
		"settings": domain.Settings{Address: "B", Discount: 5},
	})
	snaps := &mockSnapshots{stored: raw}
	s := New(snaps, zerolog.Nop())

	s.Hydrate(context.Background())

	if len(s.Items()) != 0 {
		t.Fatalf("legacy items must not be restored")
	}
	if got := s.Settings(); got.Address != "B" || got.Discount != 5 {
		t.Fatalf("settings should still restore: %+v", got)
	}
}

func TestTotalsReflectCurrentState(t *testing.T) {
	s, _ := newTestStore()
	s.AddCatalogItem(catalogItem("heating_01", 1000), 2, 1000)
	s.SetManualType(domain.ItemTypeProduct)
	s.AddManualItem(domain.ManualItemInput{Name: "Кран", Quantity: 1, Price: 500})
	disc := 10
	s.UpdateSettings(domain.SettingsPatch{Discount: &disc})

	totals := s.Totals()
	if totals.SubtotalServices != 2000 || totals.SubtotalProducts != 500 {
		t.Fatalf("unexpected subtotals: %+v", totals)
	}
	if totals.DiscountAmount != 200 || totals.GrandTotal != 2300 {
		t.Fatalf("unexpected discount/total: %+v", totals)
	}
}
