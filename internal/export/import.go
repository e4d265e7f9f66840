package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/getto-dev/smeta/internal/domain"
)

var (
	// ErrNoDataBlock means the document carries no embedded payload and was
	// probably not produced by an export.
	ErrNoDataBlock = errors.New("no embedded estimate data found")

	// ErrEmptyPayload means the payload block exists but holds no items.
	ErrEmptyPayload = errors.New("embedded estimate data has no items")
)

// Parse extracts and decodes the embedded payload of a previously exported
// document. Missing settings fall back to activeSettings. On any failure the
// returned error describes the problem and no partial result is produced.
func Parse(contents []byte, activeSettings domain.Settings) ([]domain.InvoiceItem, domain.Settings, error) {
	doc, err := html.Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("failed to parse document: %w", err)
	}

	node := findByID(doc, DataElementID)
	if node == nil {
		return nil, domain.Settings{}, ErrNoDataBlock
	}

	var decoded struct {
		Items    []domain.CompressedItem `json:"items"`
		Settings *domain.Settings        `json:"settings"`
	}
	if err := json.Unmarshal([]byte(textContent(node)), &decoded); err != nil {
		return nil, domain.Settings{}, fmt.Errorf("failed to decode estimate data: %w", err)
	}
	if len(decoded.Items) == 0 {
		return nil, domain.Settings{}, ErrEmptyPayload
	}

	settings := activeSettings
	if decoded.Settings != nil {
		settings = *decoded.Settings
	}

	return domain.DecompressItems(decoded.Items), settings, nil
}

// findByID walks the parse tree looking for an element with the given id.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates the text nodes under an element.
func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
