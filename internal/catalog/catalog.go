package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getto-dev/smeta/internal/domain"
)

// feed mirrors the published price list JSON:
// {version, updated, categories: [{id,name}], services: {catId: [{id,n,d,u,p}]}}
type feed struct {
	Version    string                   `json:"version"`
	Updated    string                   `json:"updated"`
	Categories []feedCategory           `json:"categories"`
	Services   map[string][]feedService `json:"services"`
}

type feedCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type feedService struct {
	ID          string  `json:"id"`
	Name        string  `json:"n"`
	Description string  `json:"d"`
	Unit        string  `json:"u"`
	Price       float64 `json:"p"`
}

// Catalog is the parsed, indexed price list. It is read-only after Parse.
type Catalog struct {
	version    string
	updated    string
	categories []domain.Category
	byCategory map[string][]domain.CatalogItem
	index      map[string]domain.CatalogItem
}

// Parse decodes a feed document and builds the category and ID indexes.
func Parse(raw []byte) (*Catalog, error) {
	var f feed
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog feed: %w", err)
	}

	c := &Catalog{
		version:    f.Version,
		updated:    f.Updated,
		categories: make([]domain.Category, 0, len(f.Categories)),
		byCategory: make(map[string][]domain.CatalogItem, len(f.Services)),
		index:      make(map[string]domain.CatalogItem),
	}

	for _, fc := range f.Categories {
		c.categories = append(c.categories, domain.Category{ID: fc.ID, Name: fc.Name})
	}

	for catID, services := range f.Services {
		items := make([]domain.CatalogItem, 0, len(services))
		for _, s := range services {
			item := domain.CatalogItem{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				Unit:        s.Unit,
				Price:       s.Price,
				CategoryID:  catID,
			}
			if item.Unit == "" {
				item.Unit = domain.DefaultUnit
			}
			items = append(items, item)
			c.index[item.ID] = item
		}
		c.byCategory[catID] = items
	}

	return c, nil
}

// Fallback returns a catalog with the built-in category list and no items,
// used when neither the feed nor a cached copy is available.
func Fallback() *Catalog {
	return &Catalog{
		categories: fallbackCategories(),
		byCategory: map[string][]domain.CatalogItem{},
		index:      map[string]domain.CatalogItem{},
	}
}

// fallbackCategories is the category set shipped with the tool.
func fallbackCategories() []domain.Category {
	return []domain.Category{
		{ID: "heating", Name: "Отопление"},
		{ID: "floor_heat", Name: "Теплый пол"},
		{ID: "water", Name: "Водоснабжение"},
		{ID: "boilers", Name: "Котельные"},
		{ID: "chimneys", Name: "Дымоходы"},
		{ID: "sewerage", Name: "Канализация"},
		{ID: "pipes", Name: "Прокладка труб"},
		{ID: "filtration", Name: "Водоочистка"},
		{ID: "automation", Name: "Автоматика"},
		{ID: "grooving", Name: "Штробление и бурение"},
		{ID: "service", Name: "Сервис и ремонт"},
		{ID: "plumbing", Name: "Чистовая сантехника"},
	}
}

// Version returns the feed version string
func (c *Catalog) Version() string {
	return c.version
}

// Updated returns the feed's last-updated marker
func (c *Catalog) Updated() string {
	return c.updated
}

// Categories returns the categories in feed order
func (c *Catalog) Categories() []domain.Category {
	return c.categories
}

// ItemsByCategory returns the items of one category
func (c *Catalog) ItemsByCategory(catID string) []domain.CatalogItem {
	return c.byCategory[catID]
}

// Lookup finds a catalog item by ID
func (c *Catalog) Lookup(id string) (domain.CatalogItem, bool) {
	item, ok := c.index[id]
	return item, ok
}

// Search returns items whose name or description contains the query,
// case-insensitively, walking categories in feed order.
func (c *Catalog) Search(query string) []domain.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []domain.CatalogItem
	for _, cat := range c.categories {
		for _, item := range c.byCategory[cat.ID] {
			if strings.Contains(strings.ToLower(item.Name), query) ||
				strings.Contains(strings.ToLower(item.Description), query) {
				results = append(results, item)
			}
		}
	}
	return results
}
