package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getto-dev/smeta/internal/app"
	"github.com/getto-dev/smeta/internal/catalog"
	"github.com/getto-dev/smeta/internal/domain"
)

// catalogMode represents the current screen mode
type catalogMode int

const (
	catalogModeCategories catalogMode = iota
	catalogModeItems
	catalogModeSearch
	catalogModeAdd
)

// add form field indices
const (
	addFieldQty = iota
	addFieldPrice
	addFieldCount
)

// CatalogModel lets the user browse categories, search services, and add them
// to the estimate with an optional price override.
type CatalogModel struct {
	app     *app.App
	catalog *catalog.Catalog
	loading bool

	mode       catalogMode
	categories []domain.Category
	items      []domain.CatalogItem
	cursor     int

	// Search state
	searchInput textinput.Model

	// Add form state
	adding     domain.CatalogItem
	fields     []textinput.Model
	fieldFocus int

	statusMsg string
	err       error
}

// NewCatalogModel creates a new catalog screen model
func NewCatalogModel(a *app.App) tea.Model {
	return &CatalogModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when search or the add form is active
func (m *CatalogModel) IsCapturingInput() bool {
	return m.mode == catalogModeSearch || m.mode == catalogModeAdd
}

func (m *CatalogModel) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m *CatalogModel) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{catalog: m.app.Catalog.Load(context.Background())}
	}
}

func (m *CatalogModel) initAddForm(item domain.CatalogItem) {
	m.adding = item
	m.fields = make([]textinput.Model, addFieldCount)

	m.fields[addFieldQty] = textinput.New()
	m.fields[addFieldQty].Placeholder = "1"
	m.fields[addFieldQty].CharLimit = 5
	m.fields[addFieldQty].Width = 8
	m.fields[addFieldQty].SetValue("1")

	m.fields[addFieldPrice] = textinput.New()
	m.fields[addFieldPrice].Placeholder = strconv.FormatFloat(item.Price, 'f', -1, 64)
	m.fields[addFieldPrice].CharLimit = 12
	m.fields[addFieldPrice].Width = 12

	m.fieldFocus = addFieldQty
	m.fields[addFieldQty].Focus()
}

// submitAdd validates the form and adds the line to the estimate
func (m *CatalogModel) submitAdd() {
	quantity := 1
	if v := m.fields[addFieldQty].Value(); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 {
			m.err = fmt.Errorf("неверное количество: %s", v)
			return
		}
		quantity = q
	}

	price := m.adding.Price
	if v := m.fields[addFieldPrice].Value(); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			m.err = fmt.Errorf("неверная цена: %s", v)
			return
		}
		price = p
	}

	m.app.Store.AddCatalogItem(m.adding, quantity, price)
	m.statusMsg = fmt.Sprintf("Добавлено: %s x%d", m.adding.Name, quantity)
	m.mode = catalogModeItems
	m.err = nil
}

func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		// Catalog data is static for the session; nothing to reload
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		m.catalog = msg.catalog
		m.categories = msg.catalog.Categories()
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		m.statusMsg = ""

		switch m.mode {
		case catalogModeAdd:
			return m.updateAddForm(msg)
		case catalogModeSearch:
			return m.updateSearch(msg)
		case catalogModeItems:
			return m.updateItems(msg)
		default:
			return m.updateCategories(msg)
		}
	}

	return m, nil
}

func (m *CatalogModel) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.categories) > 0 {
			m.items = m.catalog.ItemsByCategory(m.categories[m.cursor].ID)
			m.mode = catalogModeItems
			m.cursor = 0
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.searchInput = textinput.New()
		m.searchInput.Placeholder = "поиск по каталогу"
		m.searchInput.Width = 40
		m.mode = catalogModeSearch
		return m, m.searchInput.Focus()
	}
	return m, nil
}

func (m *CatalogModel) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = catalogModeCategories
		m.cursor = 0
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.items) > 0 {
			m.mode = catalogModeAdd
			m.initAddForm(m.items[m.cursor])
			return m, m.fields[addFieldQty].Focus()
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.searchInput = textinput.New()
		m.searchInput.Placeholder = "поиск по каталогу"
		m.searchInput.Width = 40
		m.mode = catalogModeSearch
		return m, m.searchInput.Focus()
	}
	return m, nil
}

func (m *CatalogModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = catalogModeCategories
		m.cursor = 0
		return m, nil
	case "enter":
		m.items = m.catalog.Search(m.searchInput.Value())
		m.mode = catalogModeItems
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *CatalogModel) updateAddForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = catalogModeItems
		m.err = nil
		return m, nil

	case "tab", "down", "shift+tab", "up":
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus = (m.fieldFocus + 1) % addFieldCount
		return m, m.fields[m.fieldFocus].Focus()

	case "enter":
		if m.fieldFocus == addFieldCount-1 {
			m.submitAdd()
			return m, nil
		}
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus++
		return m, m.fields[m.fieldFocus].Focus()
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *CatalogModel) View() string {
	if m.loading {
		return "Загрузка каталога..."
	}

	switch m.mode {
	case catalogModeAdd:
		return m.viewAddForm()
	case catalogModeSearch:
		return m.viewSearch()
	case catalogModeItems:
		return m.viewItems()
	default:
		return m.viewCategories()
	}
}

func (m *CatalogModel) viewCategories() string {
	var s string
	s += titleStyle.Render("Каталог услуг") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	for i, c := range m.categories {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		s += style.Render(indicator+c.Name) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: выбор  enter: открыть  /: поиск")
	return s
}

func (m *CatalogModel) viewItems() string {
	var s string
	s += titleStyle.Render("Услуги") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.items) == 0 {
		s += subtitleStyle.Render("  Ничего не найдено.") + "\n"
		s += "\n" + helpStyle.Render("  esc: назад  /: поиск")
		return s
	}

	for i, item := range m.items {
		selected := i == m.cursor
		indicator := "  "
		nameStyle := lipgloss.NewStyle()
		if selected {
			indicator = "> "
			nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
		}

		line1 := fmt.Sprintf("%s%s", indicator, truncateStr(item.Name, 50))
		line2 := fmt.Sprintf("    %s / %s", formatMoney(item.Price), item.Unit)
		if item.Description != "" {
			line2 += "  |  " + truncateStr(item.Description, 40)
		}

		s += nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: выбор  enter: добавить  esc: назад  /: поиск")
	return s
}

func (m *CatalogModel) viewSearch() string {
	var s string
	s += titleStyle.Render("Поиск по каталогу") + "\n\n"
	s += "  " + m.searchInput.View() + "\n\n"
	s += helpStyle.Render("  enter: искать  esc: отмена")
	return s
}

func (m *CatalogModel) viewAddForm() string {
	var s string
	s += titleStyle.Render("Добавить в смету") + "\n\n"
	s += "  " + m.adding.Name + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("  Цена по каталогу: %s / %s", formatMoney(m.adding.Price), m.adding.Unit)) + "\n\n"

	labels := []string{"Количество:", "Цена (пусто = по каталогу):"}
	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Ошибка: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab: поля  enter: добавить  esc: отмена")
	return s
}
