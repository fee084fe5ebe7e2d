package detail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/filter"
	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/theme"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/internal/ui/page"
)

// BackMsg signals the parent to navigate back to the sector list.
type BackMsg struct{}

// UserSource is the part of the API the detail view reads.
type UserSource interface {
	SectorUsers(ctx context.Context, id int64) ([]model.User, error)
}

type usersLoadedMsg struct {
	gen   int
	users []model.User
	err   error
}

// Model is the sector detail view: the sector's fields and its users.
type Model struct {
	sector   *model.Sector
	users    []model.User
	filter   filter.UserFilter
	src      UserSource
	sess     *session.Session
	life     *page.Lifetime
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
	loadErr  string
}

// New creates a new detail view model.
func New(src UserSource, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		src:      src,
		life:     page.NewLifetime(),
		viewport: vp,
		keys:     keys,
		filter:   filter.UserFilter{Role: filter.All, Active: filter.All},
		width:    width,
		height:   height,
	}
}

// SetSession replaces the session the view is gated on.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Open shows sector s and fetches its users.
func (m *Model) Open(s model.Sector) tea.Cmd {
	m.sector = &s
	m.users = nil
	m.loadErr = ""
	m.filter = filter.UserFilter{Role: filter.All, Active: filter.All}
	m.refresh()
	if !session.Gate(m.sess, session.Need(session.ResourceSectors, session.ActionView)) {
		return nil
	}
	m.life.Begin()
	return m.load()
}

// Close cancels in-flight requests.
func (m *Model) Close() {
	m.life.End()
}

// Users returns the users passing the role filter.
func (m Model) Users() []model.User {
	return m.filter.Apply(m.users)
}

// Refresh refetches the users of the open sector.
func (m *Model) Refresh() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	if m.sector == nil {
		return nil
	}
	ctx, gen := m.life.Context()
	src := m.src
	id := m.sector.ID
	m.loading = true
	return func() tea.Msg {
		users, err := src.SectorUsers(ctx, id)
		return usersLoadedMsg{gen: gen, users: users, err: err}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("loading users of sector %d: %v", m.sector.ID, msg.err)
			m.loadErr = api.UserMessage(msg.err)
			m.users = nil
			m.refresh()
			return m, banner.Error("Erro ao carregar usuários do setor: " + m.loadErr)
		}
		m.loadErr = ""
		m.users = msg.users
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()

		case key.Matches(msg, m.keys.CycleRole):
			m.filter.Role = nextRole(m.filter.Role)
			m.refresh()
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func nextRole(cur string) string {
	order := []string{filter.All}
	for _, r := range session.Roles() {
		order = append(order, r.String())
	}
	return filter.Cycle(cur, order...)
}

// View renders the detail view.
func (m Model) View() string {
	return session.Guard(m.sess, session.Need(session.ResourceSectors, session.ActionView), m.render)
}

func (m Model) render() string {
	if m.sector == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("Nenhum setor selecionado")
	}
	return m.viewport.View()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.sector == nil {
		return ""
	}

	s := m.sector
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	status := theme.ActiveStyle(s.Ativo).Render("inativo")
	if s.Ativo {
		status = theme.ActiveStyle(true).Render("ativo")
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(s.Nome), "  ", status))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if s.Descricao != "" {
		sections = append(sections, fmt.Sprintf("%s  %s", metaStyle.Render("Descrição:"), valStyle.Render(s.Descricao)))
	}
	if !s.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf("%s  %s", metaStyle.Render("Criado em:"), valStyle.Render(s.CreatedAt.Local().Format("02/01/2006 15:04"))))
	}
	if !s.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf("%s  %s", metaStyle.Render("Atualizado:"), valStyle.Render(s.UpdatedAt.Local().Format("02/01/2006 15:04"))))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 10)))
	sections = append(sections, "", separator, "")

	users := m.Users()
	header := fmt.Sprintf("Usuários (%d)", len(users))
	if m.filter.Role != filter.All {
		header += " · " + session.ParseRole(m.filter.Role).Label()
	}
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(header))

	switch {
	case m.loading:
		sections = append(sections, metaStyle.Render("Carregando usuários..."))
	case m.loadErr != "":
		sections = append(sections, metaStyle.Render("Não foi possível carregar os usuários."))
	case len(users) == 0:
		sections = append(sections, metaStyle.Italic(true).Render("Nenhum usuário neste setor."))
	default:
		for _, u := range users {
			role := theme.RoleStyle(u.Role).Render(session.ParseRole(u.Role).Label())
			line := fmt.Sprintf("%s  %s  %s", valStyle.Render(u.DisplayName()), metaStyle.Render(u.Email), role)
			if !u.Ativo {
				line += "  " + theme.ActiveStyle(false).Render("inativo")
			}
			sections = append(sections, line)
		}
	}

	sections = append(sections, "", theme.HelpStyle.Render("p papel | r atualizar | esc voltar"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
