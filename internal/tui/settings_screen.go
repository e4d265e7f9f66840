package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getto-dev/smeta/internal/app"
	"github.com/getto-dev/smeta/internal/domain"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldAddress = iota
	settingsFieldOutputDir
	settingsFieldCount
)

// discountStep is how much +/- changes the discount per keypress
const discountStep = 5

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages estimate settings: the object address, the service
// discount, the theme, and the export directory.
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)

	// Object address
	m.fields[settingsFieldAddress] = textinput.New()
	m.fields[settingsFieldAddress].Placeholder = "ул. Ленина, д. 1, кв. 2"
	m.fields[settingsFieldAddress].CharLimit = 200
	m.fields[settingsFieldAddress].Width = 50
	m.fields[settingsFieldAddress].SetValue(m.app.Store.Settings().Address)

	// Export directory
	m.fields[settingsFieldOutputDir] = textinput.New()
	m.fields[settingsFieldOutputDir].Placeholder = "/path/to/exports"
	m.fields[settingsFieldOutputDir].CharLimit = 256
	m.fields[settingsFieldOutputDir].Width = 60
	m.fields[settingsFieldOutputDir].SetValue(m.app.Config.Export.OutputDir)

	m.fieldFocus = settingsFieldAddress
	m.fields[settingsFieldAddress].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	address := m.fields[settingsFieldAddress].Value()
	outputDir := m.fields[settingsFieldOutputDir].Value()
	return func() tea.Msg {
		if outputDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("папка экспорта обязательна")}
		}

		m.app.Store.UpdateSettings(domain.SettingsPatch{Address: &address})

		if outputDir != m.app.Config.Export.OutputDir {
			m.app.Config.Export.OutputDir = outputDir
			if err := m.app.SaveConfig(); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
			}
		}

		return settingsSavedMsg{}
	}
}

// adjustDiscount changes the discount by delta, clamped to [0, MaxDiscount]
func (m *SettingsModel) adjustDiscount(delta int) {
	discount := m.app.Store.Settings().Discount + delta
	if discount < 0 {
		discount = 0
	}
	if discount > domain.MaxDiscount {
		discount = domain.MaxDiscount
	}
	m.app.Store.UpdateSettings(domain.SettingsPatch{Discount: &discount})
}

// cycleTheme advances light -> dark -> system -> light
func (m *SettingsModel) cycleTheme() {
	switch m.app.Store.ThemeMode() {
	case domain.ThemeLight:
		m.app.Store.SetThemeMode(domain.ThemeDark)
	case domain.ThemeDark:
		m.app.Store.SetThemeMode(domain.ThemeSystem)
	default:
		m.app.Store.SetThemeMode(domain.ThemeLight)
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch {
		case msg.String() == "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()

		case key.Matches(msg, DefaultKeyMap.Increase):
			m.adjustDiscount(discountStep)
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Decrease):
			m.adjustDiscount(-discountStep)
			return m, nil

		case msg.String() == "t":
			m.cycleTheme()
			return m, nil
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Настройки сохранены"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Настройки") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	settings := m.app.Store.Settings()
	address := settings.Address
	if address == "" {
		address = "не указан"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(18)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Объект:"), valueStyle.Render(address))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Скидка:"), valueStyle.Render(strconv.Itoa(settings.Discount)+"%"))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Тема:"), valueStyle.Render(string(m.app.Store.ThemeMode())))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Папка экспорта:"), valueStyle.Render(m.app.Config.Export.OutputDir))

	s += "\n" + helpStyle.Render("  enter: редактировать  +/-: скидка  t: тема")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Редактирование настроек") + "\n\n"

	labels := []string{"Объект (адрес):", "Папка экспорта:"}
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

	s += helpStyle.Render("  tab: поля  ctrl+s: сохранить  enter: далее/сохранить  esc: отмена")

	return s
}
