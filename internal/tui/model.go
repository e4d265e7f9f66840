package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getto-dev/smeta/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenInvoice Screen = iota
	ScreenCatalog
	ScreenManual
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenInvoice:
		return "Смета"
	case ScreenCatalog:
		return "Каталог"
	case ScreenManual:
		return "Своя позиция"
	case ScreenSettings:
		return "Настройки"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	invoice  tea.Model
	catalog  tea.Model
	manual   tea.Model
	settings tea.Model

	// Error state
	err error
}

// New creates a new root model. An empty estimate opens on the catalog so a
// new user lands where lines are added; otherwise on the current estimate.
func New(a *app.App) Model {
	initial := ScreenInvoice
	if len(a.Store.Items()) == 0 {
		initial = ScreenCatalog
	}

	m := Model{
		app:           a,
		currentScreen: initial,
	}
	switch initial {
	case ScreenInvoice:
		m.invoice = NewInvoiceModel(a)
	case ScreenCatalog:
		m.catalog = NewCatalogModel(a)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	switch m.currentScreen {
	case ScreenInvoice:
		if m.invoice != nil {
			return m.invoice.Init()
		}
	case ScreenCatalog:
		if m.catalog != nil {
			return m.catalog.Init()
		}
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenInvoice:
		if m.invoice == nil {
			m.invoice = NewInvoiceModel(m.app)
			return m.invoice.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenCatalog:
		if m.catalog == nil {
			m.catalog = NewCatalogModel(m.app)
			return m.catalog.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenManual:
		if m.manual == nil {
			m.manual = NewManualModel(m.app)
			return m.manual.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (C, I, M, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreen returns the model for the current screen
func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenInvoice:
		return m.invoice
	case ScreenCatalog:
		return m.catalog
	case ScreenManual:
		return m.manual
	case ScreenSettings:
		return m.settings
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			// Global key handlers (screen navigation)
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Catalog):
				m.currentScreen = ScreenCatalog
				cmd := m.initScreen(ScreenCatalog)
				return m, cmd

			case key.Matches(msg, DefaultKeyMap.Invoice):
				m.currentScreen = ScreenInvoice
				cmd := m.initScreen(ScreenInvoice)
				return m, cmd

			case key.Matches(msg, DefaultKeyMap.Manual):
				m.currentScreen = ScreenManual
				cmd := m.initScreen(ScreenManual)
				return m, cmd

			case key.Matches(msg, DefaultKeyMap.Settings):
				m.currentScreen = ScreenSettings
				cmd := m.initScreen(ScreenSettings)
				return m, cmd
			}
		}

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		cmd := m.initScreen(msg.Screen)
		return m, cmd

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenInvoice:
		if m.invoice != nil {
			m.invoice, cmd = m.invoice.Update(msg)
		}
	case ScreenCatalog:
		if m.catalog != nil {
			m.catalog, cmd = m.catalog.Update(msg)
		}
	case ScreenManual:
		if m.manual != nil {
			m.manual, cmd = m.manual.Update(msg)
		}
	case ScreenSettings:
		if m.settings != nil {
			m.settings, cmd = m.settings.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header with the running total, always visible
	totals := m.app.Store.Totals()
	header := headerStyle.Render(fmt.Sprintf("smeta - %s", m.currentScreen.String())) +
		"  " + totalStyle.Render(fmt.Sprintf("Итого: %s", formatMoney(totals.GrandTotal)))

	// Footer with navigation keys
	footer := footerStyle.Render("[C] Каталог  [I] Смета  [M] Своя позиция  [,] Настройки  [Q] Выход")

	// Current screen content
	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	// Error display
	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
