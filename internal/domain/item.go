package domain

// ItemType partitions invoice lines into services and products.
// Services are subject to the discount, products never are.
type ItemType string

const (
	ItemTypeService ItemType = "service"
	ItemTypeProduct ItemType = "product"
)

// CategoryManual marks lines entered by hand rather than picked from the catalog.
const CategoryManual = "manual"

// DefaultUnit is the unit used when none was given ("шт" = pieces).
const DefaultUnit = "шт"

// MaxDiscount is the largest discount percentage the settings accept.
const MaxDiscount = 50

// InvoiceItem is one line in the estimate.
type InvoiceItem struct {
	ID          int64
	CatalogID   string // empty for manually entered items
	Name        string
	Description string
	Quantity    int
	Price       float64
	Unit        string
	Type        ItemType
	Category    string
	Amount      float64
}

// Recalculate refreshes the derived amount after a quantity or price change.
func (i *InvoiceItem) Recalculate() {
	i.Amount = float64(i.Quantity) * i.Price
}

// AdjustQuantity applies a signed delta, clamping the result to at least 1,
// and recalculates the amount.
func (i *InvoiceItem) AdjustQuantity(delta int) {
	q := i.Quantity + delta
	if q < 1 {
		q = 1
	}
	i.Quantity = q
	i.Recalculate()
}

// NewCatalogItem builds an invoice line from a catalog entry. Catalog entries
// are always services; the price may be overridden at add time.
func NewCatalogItem(ci CatalogItem, quantity int, price float64) InvoiceItem {
	if quantity < 1 {
		quantity = 1
	}
	if price < 0 {
		price = 0
	}
	item := InvoiceItem{
		ID:          NextItemID(),
		CatalogID:   ci.ID,
		Name:        ci.Name,
		Description: ci.Description,
		Quantity:    quantity,
		Price:       price,
		Unit:        ci.Unit,
		Type:        ItemTypeService,
		Category:    ci.CategoryID,
	}
	item.Recalculate()
	return item
}

// ManualItemInput carries the user-entered fields of a manual line.
type ManualItemInput struct {
	Name        string
	Description string
	Quantity    int
	Price       float64
	Unit        string
}

// NewManualItem builds an invoice line from manual input. The type comes from
// the currently selected manual-entry mode.
func NewManualItem(input ManualItemInput, itemType ItemType) InvoiceItem {
	if input.Quantity < 1 {
		input.Quantity = 1
	}
	if input.Price < 0 {
		input.Price = 0
	}
	if input.Unit == "" {
		input.Unit = DefaultUnit
	}
	if itemType != ItemTypeProduct {
		itemType = ItemTypeService
	}
	item := InvoiceItem{
		ID:          NextItemID(),
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Unit:        input.Unit,
		Type:        itemType,
		Category:    CategoryManual,
	}
	item.Recalculate()
	return item
}

// Settings holds the invoice-level options.
type Settings struct {
	Address  string `json:"address"`
	Discount int    `json:"discount"` // percent, 0-50
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	Address  *string
	Discount *int
}

// Apply shallow-merges the patch into the settings.
func (s *Settings) Apply(p SettingsPatch) {
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Discount != nil {
		s.Discount = *p.Discount
	}
}

// ThemeMode is the UI appearance preference, persisted with the snapshot.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Totals is the derived summary of an item list. It is never stored.
type Totals struct {
	SubtotalServices float64
	SubtotalProducts float64
	DiscountAmount   float64
	GrandTotal       float64
}

// CatalogItem is a read-only price list entry. The core copies its fields when
// adding a line; it never mutates catalog data.
type CatalogItem struct {
	ID          string
	Name        string
	Description string
	Unit        string
	Price       float64
	CategoryID  string
}

// Category is a catalog category.
type Category struct {
	ID   string
	Name string
}
