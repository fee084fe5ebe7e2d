package dashboard

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
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

// Source is the part of the API the dashboard reads.
type Source interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	RecentReports(ctx context.Context, limit int) ([]model.Report, error)
}

type statsLoadedMsg struct {
	gen   int
	stats *model.DashboardStats
	err   error
}

type reportsLoadedMsg struct {
	gen     int
	reports []model.Report
	err     error
}

// Model is the dashboard page: entity totals and recent reports.
type Model struct {
	src          Source
	sess         *session.Session
	keys         *keys.KeyMap
	life         *page.Lifetime
	limit        int
	stats        *model.DashboardStats
	reports      []model.Report
	filter       filter.ReportFilter
	statsLoading bool
	repLoading   bool
	statsErr     string
	repErr       string
	width        int
	height       int
}

// New creates a dashboard page that requests limit recent reports.
func New(src Source, k *keys.KeyMap, limit, width, height int) Model {
	return Model{
		src:    src,
		keys:   k,
		life:   page.NewLifetime(),
		limit:  limit,
		filter: filter.ReportFilter{Status: filter.All},
		width:  width,
		height: height,
	}
}

// SetSession replaces the session the page is gated on.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Open starts a new page lifetime and fetches statistics and recent
// reports in parallel.
func (m *Model) Open() tea.Cmd {
	if !session.Gate(m.sess, session.Need(session.ResourceDashboard, session.ActionView)) {
		return nil
	}
	m.life.Begin()
	return m.load()
}

// Close cancels in-flight requests.
func (m *Model) Close() {
	m.life.End()
}

// load issues both requests at once. Each result is applied on its own,
// so a failure in one never hides the other.
func (m *Model) load() tea.Cmd {
	ctx, gen := m.life.Context()
	src := m.src
	limit := m.limit
	m.statsLoading = true
	m.repLoading = true

	fetchStats := func() tea.Msg {
		stats, err := src.DashboardStats(ctx)
		return statsLoadedMsg{gen: gen, stats: stats, err: err}
	}
	fetchReports := func() tea.Msg {
		reports, err := src.RecentReports(ctx, limit)
		return reportsLoadedMsg{gen: gen, reports: reports, err: err}
	}
	return tea.Batch(fetchStats, fetchReports)
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.statsLoading = false
		if msg.err != nil {
			log.Printf("loading dashboard statistics: %v", msg.err)
			m.statsErr = api.UserMessage(msg.err)
			m.stats = nil
			return m, banner.Error("Erro ao carregar estatísticas: " + m.statsErr)
		}
		m.statsErr = ""
		m.stats = msg.stats
		return m, nil

	case reportsLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.repLoading = false
		if msg.err != nil {
			log.Printf("loading recent reports: %v", msg.err)
			m.repErr = api.UserMessage(msg.err)
			m.reports = nil
			return m, banner.Error("Erro ao carregar relatórios recentes: " + m.repErr)
		}
		m.repErr = ""
		m.reports = msg.reports
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.CycleActive):
			m.filter.Status = nextStatus(m.filter.Status)
			return m, nil
		}
	}
	return m, nil
}

func nextStatus(cur string) string {
	return filter.Cycle(cur, append([]string{filter.All}, model.ReportStatuses...)...)
}

// VisibleReports returns the recent reports matching the status filter.
func (m Model) VisibleReports() []model.Report {
	return m.filter.Apply(m.reports)
}

// Stats returns the loaded statistics, or nil.
func (m Model) Stats() *model.DashboardStats { return m.stats }

// View renders the dashboard.
func (m Model) View() string {
	return session.Guard(m.sess, session.Need(session.ResourceDashboard, session.ActionView), m.render)
}

func (m Model) render() string {
	var b strings.Builder

	name := ""
	if m.sess != nil {
		name = m.sess.User.DisplayName()
	}
	b.WriteString(theme.TitleStyle.Render(fmt.Sprintf("Painel · bem-vindo, %s", name)))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(m.renderReports())

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderStats() string {
	switch {
	case m.statsLoading:
		return theme.DimmedStyle.Render("Carregando estatísticas...")
	case m.statsErr != "":
		return theme.DimmedStyle.Render("Estatísticas indisponíveis.")
	case m.stats == nil:
		return ""
	}

	t := m.stats.Totais
	cards := []string{
		card("Usuários", t.Usuarios),
		card("Locais", t.Locais),
		card("Equipamentos", t.Equipamentos),
		card("Motores", t.Motores),
		card("Relatórios", t.Relatorios),
	}
	if m.width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(label string, n int) string {
	value := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render(fmt.Sprintf("%d", n))
	return theme.PanelStyle.Width(16).Render(value + "\n" + theme.DimmedStyle.Render(label))
}

func (m Model) renderReports() string {
	var b strings.Builder

	header := "Relatórios recentes"
	if m.filter.Status != filter.All {
		header += " · " + model.StatusLabel(m.filter.Status)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n")

	switch {
	case m.repLoading:
		b.WriteString(theme.DimmedStyle.Render("Carregando relatórios..."))
		return b.String()
	case m.repErr != "":
		b.WriteString(theme.DimmedStyle.Render("Relatórios indisponíveis."))
		return b.String()
	}

	visible := m.VisibleReports()
	if len(visible) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhum relatório encontrado."))
		return b.String()
	}

	for _, r := range visible {
		status := theme.StatusStyle(r.Status).Render(model.StatusLabel(r.Status))
		prio := theme.PriorityStyle(r.Prioridade).Render(model.PriorityLabel(r.Prioridade))
		where := strings.Join(nonEmpty(r.LocalNome, r.EquipamentoNome), " / ")
		line := fmt.Sprintf("#%d %s  %s  %s", r.ID, r.Titulo, status, prio)
		if where != "" {
			line += theme.DimmedStyle.Render("  " + where)
		}
		if !r.CreatedAt.IsZero() {
			line += theme.DimmedStyle.Render("  " + r.CreatedAt.Local().Format("02/01/2006 15:04"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
