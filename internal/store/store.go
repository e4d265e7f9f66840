package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/getto-dev/smeta/internal/domain"
	"github.com/getto-dev/smeta/internal/storage"
)

// Snapshot is the persisted form of the store state. Items are stored in the
// compact wire form.
type Snapshot struct {
	Items     []domain.CompressedItem `json:"items"`
	Settings  domain.Settings         `json:"settings"`
	ThemeMode domain.ThemeMode        `json:"themeMode"`
}

// Store holds the in-progress estimate: line items, settings, and appearance
// state. Every mutation writes a snapshot through the persistence port;
// write failures are logged and never fail the mutation.
//
// All mutations happen on the UI goroutine, but bubbletea commands run
// concurrently, so a mutex guards the aggregate anyway.
type Store struct {
	mu         sync.Mutex
	items      []domain.InvoiceItem
	settings   domain.Settings
	themeMode  domain.ThemeMode
	manualType domain.ItemType
	hydrated   bool

	snapshots storage.SnapshotStore
	logger    zerolog.Logger
}

// New creates an empty store backed by the given snapshot port.
func New(snapshots storage.SnapshotStore, logger zerolog.Logger) *Store {
	return &Store{
		snapshots:  snapshots,
		logger:     logger,
		themeMode:  domain.ThemeSystem,
		manualType: domain.ItemTypeService,
	}
}

// Hydrate restores state from the persisted snapshot. Items stored in the
// compact wire form (detected by the "i" key on the first element) are
// decompressed; a missing or unreadable snapshot leaves the default empty
// state. The store reports hydrated afterwards either way, so the UI can
// distinguish the pre-restore render from restored-but-empty.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.hydrated = true }()

	if s.snapshots == nil {
		return
	}

	raw, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			s.logger.Warn().Err(err).Msg("failed to load snapshot")
		}
		return
	}

	var snap struct {
		Items     []map[string]json.RawMessage `json:"items"`
		Settings  domain.Settings              `json:"settings"`
		ThemeMode domain.ThemeMode             `json:"themeMode"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn().Err(err).Msg("stored snapshot is not valid JSON, starting empty")
		return
	}

	s.settings = snap.Settings
	if snap.ThemeMode != "" {
		s.themeMode = snap.ThemeMode
	}

	if len(snap.Items) == 0 {
		return
	}
	if _, compact := snap.Items[0]["i"]; !compact {
		// Not the compact wire form; treat as an unusable legacy payload.
		return
	}

	var records struct {
		Items []domain.CompressedItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode compact items, starting empty")
		return
	}
	s.items = domain.DecompressItems(records.Items)
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// AddCatalogItem adds a catalog entry to the invoice. When a line with the
// same catalog ID and the same price already exists the quantities merge;
// a price override creates a distinct line, so historical price changes
// never merge silently.
func (s *Store) AddCatalogItem(ci domain.CatalogItem, quantity int, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}
	if price < 0 {
		price = 0
	}

	for i := range s.items {
		if s.items[i].CatalogID == ci.ID && s.items[i].Price == price {
			s.items[i].Quantity += quantity
			s.items[i].Recalculate()
			s.persistLocked()
			return
		}
	}

	s.items = append(s.items, domain.NewCatalogItem(ci, quantity, price))
	s.persistLocked()
}

// AddManualItem appends a manually entered line. Manual lines never merge.
// The type comes from the currently selected manual-entry mode.
func (s *Store) AddManualItem(input domain.ManualItemInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, domain.NewManualItem(input, s.manualType))
	s.persistLocked()
}

// UpdateQuantity applies a signed delta to the line with the given ID,
// clamping the result to at least 1. Unknown IDs are a no-op.
func (s *Store) UpdateQuantity(id int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].AdjustQuantity(delta)
			s.persistLocked()
			return
		}
	}
}

// RemoveItem removes the line with the given ID. Unknown IDs are a no-op.
func (s *Store) RemoveItem(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// ClearItems empties the item list. Settings are untouched.
func (s *Store) ClearItems() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked()
}

// Import wholesale-replaces items and settings, e.g. from an imported
// export file.
func (s *Store) Import(items []domain.InvoiceItem, settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.settings = settings
	s.persistLocked()
}

// UpdateSettings shallow-merges the patch into the current settings.
func (s *Store) UpdateSettings(patch domain.SettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Apply(patch)
	s.persistLocked()
}

// SetThemeMode updates the persisted appearance preference.
func (s *Store) SetThemeMode(mode domain.ThemeMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.themeMode = mode
	s.persistLocked()
}

// SetManualType selects the type used for subsequently added manual lines.
// It is transient and not persisted.
func (s *Store) SetManualType(t domain.ItemType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != domain.ItemTypeProduct {
		t = domain.ItemTypeService
	}
	s.manualType = t
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.InvoiceItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.InvoiceItem, len(s.items))
	copy(out, s.items)
	return out
}

// Settings returns the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ThemeMode returns the current appearance preference.
func (s *Store) ThemeMode() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themeMode
}

// ManualType returns the current manual-entry mode.
func (s *Store) ManualType() domain.ItemType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualType
}

// Totals recomputes the invoice summary from the current state.
func (s *Store) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CalculateTotals(s.items, s.settings)
}

// persistLocked writes a snapshot through the port. Callers hold the mutex.
// Failures are logged; a crash between mutation and write can lose at most
// the latest mutation.
func (s *Store) persistLocked() {
	if s.snapshots == nil {
		return
	}

	snap := Snapshot{
		Items:     domain.CompressItems(s.items),
		Settings:  s.settings,
		ThemeMode: s.themeMode,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode snapshot")
		return
	}

	if err := s.snapshots.Save(context.Background(), raw); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist snapshot")
	}
}
