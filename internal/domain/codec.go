package domain

import (
	"strconv"
	"time"
)

// CompressedItem is the single-letter-key wire form of an InvoiceItem, used
// for the persisted snapshot and the export payload. It is never the working
// in-memory representation. Optional fields are pointers so that decoding a
// partially populated record (older or foreign exports) can tell "absent"
// from "zero".
type CompressedItem struct {
	ID          string    `json:"i"`
	Name        string    `json:"n"`
	Description *string   `json:"d,omitempty"`
	Quantity    *int      `json:"q,omitempty"`
	Price       *float64  `json:"p,omitempty"`
	Unit        *string   `json:"u,omitempty"`
	Type        *ItemType `json:"t,omitempty"`
	Category    *string   `json:"c,omitempty"`
	Amount      *float64  `json:"a,omitempty"`
}

// Compress maps an invoice line to its compact wire form. The "i" key carries
// the catalog ID when the line came from the catalog, otherwise the stringified
// numeric ID.
func Compress(item InvoiceItem) CompressedItem {
	id := item.CatalogID
	if id == "" {
		id = strconv.FormatInt(item.ID, 10)
	}
	return CompressedItem{
		ID:          id,
		Name:        item.Name,
		Description: ptr(item.Description),
		Quantity:    ptr(item.Quantity),
		Price:       ptr(item.Price),
		Unit:        ptr(item.Unit),
		Type:        ptr(item.Type),
		Category:    ptr(item.Category),
		Amount:      ptr(item.Amount),
	}
}

// CompressItems compresses a whole item list.
func CompressItems(items []InvoiceItem) []CompressedItem {
	out := make([]CompressedItem, len(items))
	for i, item := range items {
		out[i] = Compress(item)
	}
	return out
}

// Decompress maps a compact record back to an invoice line. It is total:
// missing optional fields degrade to defaults rather than raising an error.
// When "i" parses as a positive integer it is taken as the numeric ID of a
// manual line; otherwise it is the catalog ID and a fresh ID is derived from
// the current time offset by fallbackIndex, which keeps IDs unique within one
// import batch.
func Decompress(rec CompressedItem, fallbackIndex int) InvoiceItem {
	item := InvoiceItem{
		Name:     rec.Name,
		Quantity: 1,
		Unit:     DefaultUnit,
		Type:     ItemTypeService,
	}

	if id, err := strconv.ParseInt(rec.ID, 10, 64); err == nil && id > 0 {
		item.ID = id
	} else {
		item.ID = time.Now().UnixMilli() + int64(fallbackIndex)
		item.CatalogID = rec.ID
	}

	if rec.Description != nil {
		item.Description = *rec.Description
	}
	if rec.Quantity != nil && *rec.Quantity >= 1 {
		item.Quantity = *rec.Quantity
	}
	if rec.Price != nil && *rec.Price >= 0 {
		item.Price = *rec.Price
	}
	if rec.Unit != nil && *rec.Unit != "" {
		item.Unit = *rec.Unit
	}
	if rec.Type != nil && (*rec.Type == ItemTypeService || *rec.Type == ItemTypeProduct) {
		item.Type = *rec.Type
	}
	if rec.Category != nil {
		item.Category = *rec.Category
	}
	if rec.Amount != nil {
		item.Amount = *rec.Amount
	} else {
		item.Recalculate()
	}

	return item
}

// DecompressItems decompresses a whole list, passing each record's index as
// the ID fallback offset.
func DecompressItems(records []CompressedItem) []InvoiceItem {
	out := make([]InvoiceItem, len(records))
	for i, rec := range records {
		out[i] = Decompress(rec, i)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
