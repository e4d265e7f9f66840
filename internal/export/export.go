package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/getto-dev/smeta/internal/domain"
)

// DataElementID identifies the embedded JSON payload inside an exported
// document. Import locates the payload by this id, so it is part of the
// compatibility contract.
const DataElementID = "santech-data"

// payload is the machine-readable half of an exported document.
type payload struct {
	Items    []domain.CompressedItem `json:"items"`
	Settings domain.Settings         `json:"settings"`
}

type row struct {
	Name        string
	Description string
	Qty         string
	Price       string
	Amount      string
}

type document struct {
	Number           string
	Address          string
	Services         []row
	Products         []row
	SubtotalServices string
	SubtotalProducts string
	Discount         int
	DiscountAmount   string
	GrandTotal       string
	DataID           string
	Payload          template.JS
}

// InvoiceNumber derives the human-readable estimate number from a date,
// in the YYMMDD-01 pattern.
func InvoiceNumber(now time.Time) string {
	return now.Format("060102") + "-01"
}

// Filename returns the suggested file name for an exported estimate.
func Filename(number string) string {
	return fmt.Sprintf("Smeta_%s.html", number)
}

// Render builds a self-contained HTML estimate: a printable document for the
// customer plus an embedded JSON payload that Parse can re-import.
func Render(items []domain.InvoiceItem, settings domain.Settings, now time.Time) ([]byte, string, error) {
	number := InvoiceNumber(now)

	var services, products []row
	for _, item := range items {
		r := row{
			Name:        item.Name,
			Description: item.Description,
			Qty:         fmt.Sprintf("%d %s", item.Quantity, item.Unit),
			Price:       FormatCurrency(item.Price),
			Amount:      FormatCurrency(item.Amount),
		}
		if item.Type == domain.ItemTypeProduct {
			products = append(products, r)
		} else {
			services = append(services, r)
		}
	}

	totals := domain.CalculateTotals(items, settings)

	raw, err := json.Marshal(payload{
		Items:    domain.CompressItems(items),
		Settings: settings,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode export payload: %w", err)
	}

	address := settings.Address
	if address == "" {
		address = "не указан"
	}

	doc := document{
		Number:           number,
		Address:          address,
		Services:         services,
		Products:         products,
		SubtotalServices: FormatCurrency(totals.SubtotalServices),
		SubtotalProducts: FormatCurrency(totals.SubtotalProducts),
		Discount:         settings.Discount,
		DiscountAmount:   FormatCurrency(totals.DiscountAmount),
		GrandTotal:       FormatCurrency(totals.GrandTotal),
		DataID:           DataElementID,
		// json.Marshal escapes <, > and & by default, so the payload can
		// never terminate the script element early.
		Payload: template.JS(raw),
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, doc); err != nil {
		return nil, "", fmt.Errorf("failed to render estimate: %w", err)
	}

	return buf.Bytes(), Filename(number), nil
}

var docTemplate = template.Must(template.New("estimate").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Счет на оплату №{{.Number}}</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; padding: 8px; color: #333; background: white; font-size: 9pt; }
        .invoice-box { max-width: 100%; margin: 0 auto; }
        .header-row { display: flex; justify-content: space-between; align-items: baseline; border-bottom: 2px solid #8b5cf6; padding-bottom: 4px; margin-bottom: 12px; flex-wrap: wrap; gap: 8px; }
        .title { font-size: 16pt; color: #8b5cf6; font-weight: 700; }
        .header-item { font-size: 9pt; }
        .label { color: #555; font-size: 7pt; text-transform: uppercase; font-weight: 700; margin-right: 4px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 8px; table-layout: fixed; }
        th { border-bottom: 2px solid #333; padding: 4px 6px; font-size: 8pt; text-transform: uppercase; text-align: left; font-weight: 700; }
        td { padding: 4px 6px; border-bottom: 1px solid #eee; font-size: 9pt; vertical-align: middle; line-height: 1.3; }
        .col-name { width: 73%; text-align: left; }
        .col-qty { width: 7%; text-align: center; white-space: nowrap; }
        .col-price { width: 10%; text-align: center; white-space: nowrap; }
        .col-total { width: 10%; text-align: center; white-space: nowrap; }
        .desc-text { display: inline; color: #777; font-size: 8pt; font-weight: 400; margin-left: 4px; }
        .desc-text::before { content: '('; }
        .desc-text::after { content: ')'; }
        .desc-text:empty::before, .desc-text:empty::after { content: none; }
        .col-name strong { font-weight: 600; }
        .subtotal-row td { font-size: 8pt; color: #444; text-align: right; background: #f7f7f7; border: none; padding-right: 10px; }
        .total-block { margin-top: 8px; padding-top: 6px; border-top: 2px solid #8b5cf6; display: flex; flex-direction: column; align-items: flex-end; }
        .summary-line { display: flex; justify-content: space-between; width: min(260px, 100%); margin-bottom: 4px; font-size: 9pt; gap: 16px; }
        .discount-text { color: #ef4444; font-weight: 700; }
        .grand-total { margin-top: 2px; padding-top: 4px; border-top: 1px solid #eee; font-size: 11pt; font-weight: 700; color: #8b5cf6; }
        .grand-total .label-text { color: #333; font-size: 8pt; text-transform: uppercase; }
        @media print { body { padding: 5mm; } tr { page-break-inside: avoid; } }
        @media (max-width: 480px) { .col-name { width: 65%; } .col-qty, .col-price, .col-total { width: 12%; } }
    </style>
</head>
<body>
<div class="invoice-box">
    <div class="header-row">
        <div class="title">СЧЕТ №{{.Number}}</div>
        <div class="header-item">
            <span class="label">Объект:</span>
            <span>{{.Address}}</span>
        </div>
    </div>
{{- if .Services}}
    <table>
        <thead><tr><th class="col-name">РАБОТЫ И УСЛУГИ</th><th class="col-qty">Кол.</th><th class="col-price">Цена</th><th class="col-total">Всего</th></tr></thead>
        <tbody>
        {{- range .Services}}
        <tr><td class="col-name"><strong>{{.Name}}</strong><span class="desc-text">{{.Description}}</span></td><td class="col-qty">{{.Qty}}</td><td class="col-price">{{.Price}}</td><td class="col-total">{{.Amount}}</td></tr>
        {{- end}}
        <tr class="subtotal-row"><td colspan="4">Итого за услуги: {{.SubtotalServices}}</td></tr>
        </tbody>
    </table>
{{- end}}
{{- if .Products}}
    <table>
        <thead><tr><th class="col-name">МАТЕРИАЛЫ И ТОВАРЫ</th><th class="col-qty">Кол.</th><th class="col-price">Цена</th><th class="col-total">Всего</th></tr></thead>
        <tbody>
        {{- range .Products}}
        <tr><td class="col-name"><strong>{{.Name}}</strong><span class="desc-text">{{.Description}}</span></td><td class="col-qty">{{.Qty}}</td><td class="col-price">{{.Price}}</td><td class="col-total">{{.Amount}}</td></tr>
        {{- end}}
        <tr class="subtotal-row"><td colspan="4">Итого за материалы: {{.SubtotalProducts}}</td></tr>
        </tbody>
    </table>
{{- end}}
    <div class="total-block">
        {{- if gt .Discount 0}}
        <div class="summary-line"><span>Скидка на работы ({{.Discount}}%):</span><span class="discount-text">− {{.DiscountAmount}}</span></div>
        {{- end}}
        <div class="summary-line grand-total"><span class="label-text">ИТОГО К ОПЛАТЕ:</span><span>{{.GrandTotal}}</span></div>
    </div>
</div>
<script id="{{.DataID}}" type="application/json">{{.Payload}}</script>
</body>
</html>`))
