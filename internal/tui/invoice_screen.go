package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getto-dev/smeta/internal/app"
	"github.com/getto-dev/smeta/internal/domain"
	"github.com/getto-dev/smeta/internal/export"
)

// invoiceMode represents the current screen mode
type invoiceMode int

const (
	invoiceModeList invoiceMode = iota
	invoiceModeConfirmClear
)

// InvoiceModel displays the current estimate with quantity and removal controls
type InvoiceModel struct {
	app       *app.App
	items     []domain.InvoiceItem
	cursor    int
	mode      invoiceMode
	statusMsg string
	err       error
}

// NewInvoiceModel creates a new estimate screen model
func NewInvoiceModel(a *app.App) tea.Model {
	return &InvoiceModel{app: a}
}

func (m *InvoiceModel) Init() tea.Cmd {
	m.reload()
	return nil
}

// reload re-reads the estimate from the store
func (m *InvoiceModel) reload() {
	m.items = m.app.Store.Items()
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *InvoiceModel) exportInvoice() tea.Cmd {
	items := m.app.Store.Items()
	settings := m.app.Store.Settings()
	dir := m.app.Config.Export.OutputDir
	return func() tea.Msg {
		doc, filename, err := export.Render(items, settings, time.Now())
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func (m *InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.reload()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Счет сохранен: %s", msg.path)
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.err = nil

		if m.mode == invoiceModeConfirmClear {
			switch msg.String() {
			case "y", "Y":
				m.app.Store.ClearItems()
				m.mode = invoiceModeList
				m.reload()
				m.statusMsg = "Смета очищена"
			default:
				m.mode = invoiceModeList
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Increase):
			if len(m.items) > 0 {
				m.app.Store.UpdateQuantity(m.items[m.cursor].ID, 1)
				m.reload()
			}
		case key.Matches(msg, DefaultKeyMap.Decrease):
			if len(m.items) > 0 {
				m.app.Store.UpdateQuantity(m.items[m.cursor].ID, -1)
				m.reload()
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.items) > 0 {
				name := m.items[m.cursor].Name
				m.app.Store.RemoveItem(m.items[m.cursor].ID)
				m.reload()
				m.statusMsg = fmt.Sprintf("Удалено: %s", name)
			}
		case key.Matches(msg, DefaultKeyMap.Clear):
			if len(m.items) > 0 {
				m.mode = invoiceModeConfirmClear
			}
		case key.Matches(msg, DefaultKeyMap.Export):
			if len(m.items) > 0 {
				return m, m.exportInvoice()
			}
			m.statusMsg = "Смета пуста, нечего экспортировать"
		}
	}

	return m, nil
}

func (m *InvoiceModel) View() string {
	if !m.app.Store.Hydrated() {
		return "Загрузка сметы..."
	}

	var s string

	s += titleStyle.Render("Текущая смета") + "\n\n"

	if m.mode == invoiceModeConfirmClear {
		s += lipgloss.NewStyle().Foreground(warningColor).
			Render("  Удалить все позиции из сметы? [y/N]") + "\n"
		return s
	}

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Ошибка: %v", m.err)) + "\n\n"
	}

	if len(m.items) == 0 {
		s += subtitleStyle.Render("  Смета пуста. Нажмите 'c' для каталога или 'm' для своей позиции.") + "\n"
		return s
	}

	for i, item := range m.items {
		s += m.renderItem(i, item) + "\n"
	}

	s += "\n" + m.renderTotals()
	s += "\n" + helpStyle.Render("  j/k: выбор  +/-: кол-во  d: удалить  D: очистить  x: экспорт")

	return s
}

func (m *InvoiceModel) renderItem(index int, item domain.InvoiceItem) string {
	selected := index == m.cursor

	indicator := "  "
	if selected {
		indicator = "> "
	}

	kind := "услуга"
	if item.Type == domain.ItemTypeProduct {
		kind = "материал"
	}

	line1 := fmt.Sprintf("%s%s", indicator, truncateStr(item.Name, 50))
	line2 := fmt.Sprintf("    %s  |  %d %s x %s = %s",
		kind, item.Quantity, item.Unit, formatMoney(item.Price), formatMoney(item.Amount))

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	return nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
}

func (m *InvoiceModel) renderTotals() string {
	settings := m.app.Store.Settings()
	totals := m.app.Store.Totals()

	var s string
	s += subtitleStyle.Render(fmt.Sprintf("  Итого за услуги:    %s", formatMoney(totals.SubtotalServices))) + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("  Итого за материалы: %s", formatMoney(totals.SubtotalProducts))) + "\n"
	if settings.Discount > 0 {
		s += discountStyle.Render(fmt.Sprintf("  Скидка на работы (%d%%): -%s", settings.Discount, formatMoney(totals.DiscountAmount))) + "\n"
	}
	s += totalStyle.Render(fmt.Sprintf("  ИТОГО К ОПЛАТЕ: %s", formatMoney(totals.GrandTotal))) + "\n"
	return s
}
