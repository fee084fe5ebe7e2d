package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/theme"
)

// Command is a palette action understood by the application.
type Command string

// Known commands.
const (
	Dashboard     Command = "painel"
	Sectors       Command = "setores"
	Notifications Command = "notificacoes"
	Journal       Command = "historico"
	Settings      Command = "config"
	Refresh       Command = "atualizar"
	Logout        Command = "sair"
	Quit          Command = "fechar"
)

// Commands lists every command in the order suggestions are offered.
var Commands = []Command{Dashboard, Sectors, Notifications, Journal, Settings, Refresh, Logout, Quit}

// aliases maps alternate spellings to commands.
var aliases = map[string]Command{
	"dashboard":    Dashboard,
	"notificações": Notifications,
	"histórico":    Journal,
	"journal":      Journal,
	"settings":     Settings,
	"logout":       Logout,
	"q":            Quit,
	"quit":         Quit,
}

// Parse resolves user input to a command.
func Parse(input string) (Command, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	if c, ok := aliases[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("comando desconhecido: %q", input)
}

// CommandMsg is emitted when the user executes a known command.
type CommandMsg struct {
	Command Command
}

// UnknownMsg is emitted when the input matches no command.
type UnknownMsg struct {
	Err error
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "digite um comando..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	suggestions := make([]string, 0, len(Commands))
	for _, c := range Commands {
		suggestions = append(suggestions, string(c))
	}
	ti.SetSuggestions(suggestions)
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, nil
			}
			c, err := Parse(raw)
			if err != nil {
				return m, func() tea.Msg { return UnknownMsg{Err: err} }
			}
			return m, func() tea.Msg {
				return CommandMsg{Command: c}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Paleta de comandos")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.PanelStyle.
		Width(max(m.width-4, 20)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// Blur releases keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}
