package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/getto-dev/smeta/internal/domain"
)

func sampleItems() []domain.InvoiceItem {
	return []domain.InvoiceItem{
		{
			ID: 1700000000001, CatalogID: "heating_01", Name: "Монтаж радиатора",
			Description: "стальной панельный", Quantity: 2, Price: 3500,
			Unit: domain.DefaultUnit, Type: domain.ItemTypeService,
			Category: "heating", Amount: 7000,
		},
		{
			ID: 1700000000002, Name: "Радиатор Kermi", Quantity: 2, Price: 12000,
			Unit: domain.DefaultUnit, Type: domain.ItemTypeProduct,
			Category: domain.CategoryManual, Amount: 24000,
		},
		{
			ID: 1700000000003, Name: "Выезд мастера", Quantity: 1, Price: 1000,
			Unit: domain.DefaultUnit, Type: domain.ItemTypeService,
			Category: domain.CategoryManual, Amount: 1000,
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	items := sampleItems()
	settings := domain.Settings{Address: "A", Discount: 10}

	doc, _, err := Render(items, settings, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	gotItems, gotSettings, err := Parse(doc, domain.Settings{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(gotItems) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(gotItems))
	}
	for i, want := range items {
		got := gotItems[i]
		if got.Name != want.Name || got.Quantity != want.Quantity || got.Price != want.Price {
			t.Fatalf("item %d mismatch:\n got %+v\nwant %+v", i, got, want)
		}
		if got.Type != want.Type || got.Amount != want.Amount {
			t.Fatalf("item %d type/amount mismatch:\n got %+v\nwant %+v", i, got, want)
		}
	}
	if gotSettings != settings {
		t.Fatalf("settings mismatch: got %+v want %+v", gotSettings, settings)
	}
}

func TestRenderDocumentLayout(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	doc, filename, err := Render(sampleItems(), domain.Settings{Address: "ул. Ленина, 5", Discount: 10}, now)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if filename != "Smeta_260829-01.html" {
		t.Fatalf("unexpected filename %q", filename)
	}

	s := string(doc)
	for _, want := range []string{
		"СЧЕТ №260829-01",
		"ул. Ленина, 5",
		"РАБОТЫ И УСЛУГИ",
		"МАТЕРИАЛЫ И ТОВАРЫ",
		"Скидка на работы (10%)",
		"ИТОГО К ОПЛАТЕ",
		`id="santech-data"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("document missing %q", want)
		}
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	products := []domain.InvoiceItem{
		{ID: 1, Name: "Труба", Quantity: 1, Price: 90, Unit: domain.DefaultUnit,
			Type: domain.ItemTypeProduct, Category: domain.CategoryManual, Amount: 90},
	}

	doc, _, err := Render(products, domain.Settings{}, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	s := string(doc)
	if strings.Contains(s, "РАБОТЫ И УСЛУГИ") {
		t.Fatalf("services table must be omitted when there are no services")
	}
	if strings.Contains(s, "Скидка на работы") {
		t.Fatalf("discount line must be omitted at 0%%")
	}
	if !strings.Contains(s, "не указан") {
		t.Fatalf("empty address must render as 'не указан'")
	}
}

func TestParseRejectsDocumentWithoutPayload(t *testing.T) {
	_, _, err := Parse([]byte("<html><body><p>hello</p></body></html>"), domain.Settings{})
	if !errors.Is(err, ErrNoDataBlock) {
		t.Fatalf("expected ErrNoDataBlock, got %v", err)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	doc := `<html><body><script id="santech-data" type="application/json">{broken</script></body></html>`
	_, _, err := Parse([]byte(doc), domain.Settings{})
	if err == nil {
		t.Fatalf("expected error for invalid payload JSON")
	}
}

func TestParseRejectsEmptyItems(t *testing.T) {
	doc := `<html><body><script id="santech-data" type="application/json">{"items":[]}</script></body></html>`
	_, _, err := Parse([]byte(doc), domain.Settings{})
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestParseFallsBackToActiveSettings(t *testing.T) {
	doc := `<html><body><script id="santech-data" type="application/json">` +
		`{"items":[{"i":"heating_01","n":"Опрессовка"}]}</script></body></html>`

	active := domain.Settings{Address: "current", Discount: 25}
	items, settings, err := Parse([]byte(doc), active)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if settings != active {
		t.Fatalf("expected active settings fallback, got %+v", settings)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected one defaulted item, got %+v", items)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 ₽"},
		{500, "500 ₽"},
		{2300, "2 300 ₽"},
		{1234567, "1 234 567 ₽"},
		{-200, "-200 ₽"},
		{52.5, "53 ₽"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInvoiceNumberPattern(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := InvoiceNumber(now); got != "260102-01" {
		t.Fatalf("expected 260102-01, got %q", got)
	}
}
