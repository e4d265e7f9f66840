package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getto-dev/smeta/internal/app"
	"github.com/getto-dev/smeta/internal/domain"
)

// form field indices
const (
	manualFieldName = iota
	manualFieldDesc
	manualFieldQty
	manualFieldPrice
	manualFieldUnit
	manualFieldCount
)

// ManualModel is a form for adding a line that is not in the catalog.
// The chosen type (service or material) is remembered between entries.
type ManualModel struct {
	app        *app.App
	fields     []textinput.Model
	fieldFocus int
	statusMsg  string
	err        error
}

// NewManualModel creates a new manual entry screen model
func NewManualModel(a *app.App) tea.Model {
	m := &ManualModel{app: a}
	m.initForm()
	return m
}

// IsCapturingInput returns true; this screen is always a form
func (m *ManualModel) IsCapturingInput() bool {
	return true
}

func (m *ManualModel) Init() tea.Cmd {
	return m.fields[manualFieldName].Focus()
}

func (m *ManualModel) initForm() {
	m.fields = make([]textinput.Model, manualFieldCount)

	m.fields[manualFieldName] = textinput.New()
	m.fields[manualFieldName].Placeholder = "Название"
	m.fields[manualFieldName].CharLimit = 100
	m.fields[manualFieldName].Width = 40

	m.fields[manualFieldDesc] = textinput.New()
	m.fields[manualFieldDesc].Placeholder = "Описание (необязательно)"
	m.fields[manualFieldDesc].CharLimit = 200
	m.fields[manualFieldDesc].Width = 50

	m.fields[manualFieldQty] = textinput.New()
	m.fields[manualFieldQty].Placeholder = "1"
	m.fields[manualFieldQty].CharLimit = 5
	m.fields[manualFieldQty].Width = 8

	m.fields[manualFieldPrice] = textinput.New()
	m.fields[manualFieldPrice].Placeholder = "0"
	m.fields[manualFieldPrice].CharLimit = 12
	m.fields[manualFieldPrice].Width = 12

	m.fields[manualFieldUnit] = textinput.New()
	m.fields[manualFieldUnit].Placeholder = domain.DefaultUnit
	m.fields[manualFieldUnit].CharLimit = 10
	m.fields[manualFieldUnit].Width = 10

	m.fieldFocus = manualFieldName
}

// submit validates the form and adds the line to the estimate
func (m *ManualModel) submit() {
	name := m.fields[manualFieldName].Value()
	if name == "" {
		m.err = fmt.Errorf("название обязательно")
		return
	}

	quantity := 1
	if v := m.fields[manualFieldQty].Value(); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 {
			m.err = fmt.Errorf("неверное количество: %s", v)
			return
		}
		quantity = q
	}

	price := 0.0
	if v := m.fields[manualFieldPrice].Value(); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			m.err = fmt.Errorf("неверная цена: %s", v)
			return
		}
		price = p
	}

	m.app.Store.AddManualItem(domain.ManualItemInput{
		Name:        name,
		Description: m.fields[manualFieldDesc].Value(),
		Quantity:    quantity,
		Price:       price,
		Unit:        m.fields[manualFieldUnit].Value(),
	})

	kind := "услуга"
	if m.app.Store.ManualType() == domain.ItemTypeProduct {
		kind = "материал"
	}
	m.statusMsg = fmt.Sprintf("Добавлено (%s): %s x%d", kind, name, quantity)
	m.err = nil
	m.initForm()
}

func (m *ManualModel) toggleType() {
	if m.app.Store.ManualType() == domain.ItemTypeService {
		m.app.Store.SetManualType(domain.ItemTypeProduct)
	} else {
		m.app.Store.SetManualType(domain.ItemTypeService)
	}
}

func (m *ManualModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoice} }

		case "ctrl+t":
			m.toggleType()
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % manualFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + manualFieldCount) % manualFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == manualFieldCount-1 {
				m.submit()
				return m, m.fields[m.fieldFocus].Focus()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			m.submit()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ManualModel) View() string {
	var s string

	kind := "услуга"
	if m.app.Store.ManualType() == domain.ItemTypeProduct {
		kind = "материал"
	}
	s += titleStyle.Render("Своя позиция") + "  " +
		amountStyle.Render(fmt.Sprintf("[%s]", kind)) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	labels := []string{"Название:", "Описание:", "Количество:", "Цена:", "Ед. изм.:"}
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

	s += helpStyle.Render("  tab: поля  ctrl+t: услуга/материал  ctrl+s: добавить  esc: к смете")

	return s
}
