package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/getto-dev/smeta/internal/domain"
)

const sampleFeed = `{
	"version": "1.4",
	"updated": "2026-08-01",
	"categories": [
		{"id": "heating", "name": "Отопление"},
		{"id": "water", "name": "Водоснабжение"}
	],
	"services": {
		"heating": [
			{"id": "heating_01", "n": "Монтаж радиатора", "d": "стальной панельный", "u": "шт", "p": 3500},
			{"id": "heating_02", "n": "Опрессовка системы", "d": "", "u": "шт", "p": 5000}
		],
		"water": [
			{"id": "water_01", "n": "Монтаж смесителя", "d": "с подводкой", "u": "шт", "p": 1500}
		]
	}
}`

func TestParseBuildsIndex(t *testing.T) {
	c, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if c.Version() != "1.4" {
		t.Fatalf("expected version 1.4, got %q", c.Version())
	}

	cats := c.Categories()
	if len(cats) != 2 || cats[0].ID != "heating" || cats[1].ID != "water" {
		t.Fatalf("categories not in feed order: %+v", cats)
	}

	items := c.ItemsByCategory("heating")
	if len(items) != 2 {
		t.Fatalf("expected 2 heating items, got %d", len(items))
	}

	item, ok := c.Lookup("water_01")
	if !ok {
		t.Fatalf("lookup water_01 failed")
	}
	if item.CategoryID != "water" {
		t.Fatalf("expected category filled in by index, got %q", item.CategoryID)
	}
	if item.Price != 1500 {
		t.Fatalf("expected price 1500, got %v", item.Price)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid feed")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	c, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	results := c.Search("монтаж")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches for 'монтаж', got %d", len(results))
	}

	// Description matches count too
	results = c.Search("подводкой")
	if len(results) != 1 || results[0].ID != "water_01" {
		t.Fatalf("expected description match for water_01, got %+v", results)
	}

	if got := c.Search("  "); got != nil {
		t.Fatalf("blank query should return nothing, got %+v", got)
	}
}

func TestFallbackHasCategoriesNoItems(t *testing.T) {
	c := Fallback()
	if len(c.Categories()) == 0 {
		t.Fatalf("fallback should carry the built-in category list")
	}
	if items := c.ItemsByCategory("heating"); len(items) != 0 {
		t.Fatalf("fallback should have no items, got %d", len(items))
	}
}

type fakeCache struct {
	feed  []byte
	saved []byte
	err   error
}

func (f *fakeCache) LoadFeed(ctx context.Context) ([]byte, error) {
	if f.feed == nil {
		return nil, f.err
	}
	return f.feed, nil
}

func (f *fakeCache) SaveFeed(ctx context.Context, payload []byte, updated string) error {
	f.saved = payload
	return nil
}

func TestClientLoadFetchesAndCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	cache := &fakeCache{}
	client := NewClient(srv.URL, cache, zerolog.Nop())

	c := client.Load(context.Background())
	if _, ok := c.Lookup("heating_01"); !ok {
		t.Fatalf("expected fetched catalog to index heating_01")
	}
	if cache.saved == nil {
		t.Fatalf("expected successful fetch to be written to the cache")
	}

	// Second load must not hit the network again (server closed below).
	srv.Close()
	again := client.Load(context.Background())
	if again != c {
		t.Fatalf("expected in-memory catalog to be reused")
	}
}

func TestClientLoadFallsBackToCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := &fakeCache{feed: []byte(sampleFeed)}
	client := NewClient(srv.URL, cache, zerolog.Nop())

	c := client.Load(context.Background())
	if _, ok := c.Lookup("water_01"); !ok {
		t.Fatalf("expected catalog from cache fallback")
	}
}

func TestClientLoadFallsBackToBuiltin(t *testing.T) {
	cache := &fakeCache{err: io.EOF}
	client := NewClient("http://127.0.0.1:0/catalog.json", cache, zerolog.Nop())

	c := client.Load(context.Background())
	if len(c.Categories()) == 0 {
		t.Fatalf("expected built-in categories when fetch and cache both fail")
	}
	var zero domain.CatalogItem
	if item, ok := c.Lookup("anything"); ok || item != zero {
		t.Fatalf("built-in fallback should have no items")
	}
}
