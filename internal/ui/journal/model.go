package journal

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/filter"
	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/store"
	"github.com/nhle/maintenance-admin/internal/theme"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/internal/ui/page"
)

// pageSize is how many entries one load shows.
const pageSize = 200

var outcomes = []string{filter.All, model.OutcomeSuccess, model.OutcomeFailure}

type entriesLoadedMsg struct {
	gen     int
	entries []model.JournalEntry
	total   int
	err     error
}

// Model lists mutations submitted from this console, newest first.
type Model struct {
	store   store.Store
	sess    *session.Session
	keys    *keys.KeyMap
	life    *page.Lifetime
	entries []model.JournalEntry
	total   int
	outcome string
	table   table.Model
	loading bool
	width   int
	height  int
}

// New creates a journal page.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height-8, 3)),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(theme.ColorBorder).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(theme.ColorWhite).Background(theme.ColorBlue).Bold(false)
	t.SetStyles(st)

	return Model{
		store:   s,
		keys:    k,
		life:    page.NewLifetime(),
		outcome: filter.All,
		table:   t,
		width:   width,
		height:  height,
	}
}

func columns(width int) []table.Column {
	msg := width - 16 - 14 - 8 - 8 - 12 - 12
	if msg < 16 {
		msg = 16
	}
	return []table.Column{
		{Title: "Quando", Width: 16},
		{Title: "Entidade", Width: 14},
		{Title: "ID", Width: 8},
		{Title: "Ação", Width: 8},
		{Title: "Resultado", Width: 12},
		{Title: "Por", Width: 12},
		{Title: "Mensagem", Width: msg},
	}
}

// SetSession replaces the session the page is gated on.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Open starts a new page lifetime and reads the journal.
func (m *Model) Open() tea.Cmd {
	if !m.sess.Authenticated() {
		return nil
	}
	m.life.Begin()
	return m.load()
}

// Close drops pending reads.
func (m *Model) Close() {
	m.life.End()
}

// Entries returns the loaded entries.
func (m Model) Entries() []model.JournalEntry { return m.entries }

func (m *Model) load() tea.Cmd {
	ctx, gen := m.life.Context()
	s := m.store
	f := store.JournalFilter{Limit: pageSize}
	if m.outcome != filter.All {
		outcome := m.outcome
		f.Outcome = &outcome
	}
	m.loading = true
	return func() tea.Msg {
		entries, err := s.GetJournal(ctx, f)
		if err != nil {
			return entriesLoadedMsg{gen: gen, err: err}
		}
		total, err := s.CountJournal(ctx, f)
		return entriesLoadedMsg{gen: gen, entries: entries, total: total, err: err}
	}
}

// Update handles messages for the journal page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case entriesLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("reading journal: %v", msg.err)
			m.entries = nil
			m.setRows()
			return m, banner.Error("Erro ao ler o histórico local.")
		}
		m.entries = msg.entries
		m.total = msg.total
		m.setRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.CycleActive):
			m.outcome = filter.Cycle(m.outcome, outcomes...)
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) setRows() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			e.CreatedAt.Local().Format("02/01/2006 15:04"),
			e.Entity,
			e.EntityID,
			actionLabel(e.Action),
			outcomeLabel(e.Outcome),
			e.Actor,
			e.Message,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func actionLabel(action string) string {
	switch action {
	case "create":
		return "criar"
	case "update":
		return "editar"
	case "delete":
		return "excluir"
	default:
		return action
	}
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case model.OutcomeSuccess:
		return "sucesso"
	case model.OutcomeFailure:
		return "falha"
	default:
		return outcome
	}
}

// View renders the journal page.
func (m Model) View() string {
	return session.Guard(m.sess, session.Requirement{}, m.render)
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Histórico local"))
	b.WriteString("  ")
	summary := fmt.Sprintf("%d de %d", len(m.entries), m.total)
	if m.outcome != filter.All {
		summary += " · " + outcomeLabel(m.outcome)
	}
	b.WriteString(theme.DimmedStyle.Render(summary))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.entries) == 0:
		b.WriteString(theme.DimmedStyle.Render("Carregando..."))
	case len(m.entries) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhuma alteração registrada."))
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("f resultado | r atualizar"))
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height-8, 3))
}
