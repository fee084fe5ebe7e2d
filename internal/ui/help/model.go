package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/theme"
)

var resourceLabels = []struct {
	resource session.Resource
	label    string
}{
	{session.ResourceDashboard, "Painel"},
	{session.ResourceSectors, "Setores"},
	{session.ResourceNotifications, "Notificações"},
	{session.ResourceReports, "Relatórios"},
	{session.ResourceUsers, "Usuários"},
}

var actionLabels = []struct {
	action session.Action
	label  string
}{
	{session.ActionView, "ver"},
	{session.ActionCreate, "criar"},
	{session.ActionUpdate, "editar"},
	{session.ActionDelete, "excluir"},
}

// Model is the help screen: key bindings plus what the signed-in role
// may do.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	sess   *session.Session
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// SetSession sets the session whose permissions are listed.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// Permissions lists, per resource, the actions the session may perform.
// Resources with no allowed action are omitted.
func (m Model) Permissions() []string {
	if !m.sess.Authenticated() {
		return nil
	}
	var lines []string
	for _, r := range resourceLabels {
		var allowed []string
		for _, a := range actionLabels {
			if m.sess.Can(r.resource, a.action) {
				allowed = append(allowed, a.label)
			}
		}
		if len(allowed) > 0 {
			lines = append(lines, fmt.Sprintf("%-14s %s", r.label, strings.Join(allowed, ", ")))
		}
	}
	return lines
}

// View renders the help screen.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Atalhos de teclado")

	m.help.Width = m.width - 4
	sections := []string{title, m.help.View(m.keys), ""}
	sections = append(sections, theme.DimmedStyle.Render(
		": abre a paleta de comandos (painel, setores, notificacoes, historico, config, sair)",
	))

	if perms := m.Permissions(); len(perms) > 0 {
		heading := fmt.Sprintf("Permissões de %s", m.sess.Role().Label())
		sections = append(sections, "", theme.TitleStyle.Render(heading))
		sections = append(sections, perms...)
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 20)).
		Height(max(m.height-4, 5)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
