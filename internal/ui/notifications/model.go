package notifications

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/filter"
	"github.com/nhle/maintenance-admin/internal/form"
	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/theme"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/internal/ui/page"
)

// Service is the part of the API the notifications page uses.
type Service interface {
	NotificationOverview(ctx context.Context) (*model.NotificationOverview, error)
	UpdatePreferences(ctx context.Context, userID int64, prefs map[string]bool) error
}

type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeEdit
)

type overviewLoadedMsg struct {
	gen      int
	overview *model.NotificationOverview
	err      error
}

type prefsSavedMsg struct {
	gen  int
	user model.User
	err  error
}

// Model is the notification administration page.
type Model struct {
	mode     viewMode
	svc      Service
	rec      page.Recorder
	sess     *session.Session
	keys     *keys.KeyMap
	life     *page.Lifetime
	overview *model.NotificationOverview
	visible  []model.User
	filter   filter.UserFilter
	table    table.Model
	search   textinput.Model

	// preference editor
	editing *model.User
	prefs   *form.Preferences
	cursor  int
	saving  bool
	saveErr string

	loading bool
	loadErr string
	width   int
	height  int
}

// New creates a notifications page.
func New(svc Service, rec page.Recorder, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "buscar por nome, usuário ou e-mail"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(theme.ColorBorder).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(theme.ColorWhite).Background(theme.ColorBlue).Bold(false)
	t.SetStyles(st)

	return Model{
		svc:    svc,
		rec:    rec,
		keys:   k,
		life:   page.NewLifetime(),
		filter: filter.UserFilter{Role: filter.All, Active: filter.All},
		table:  t,
		search: ti,
		width:  width,
		height: height,
	}
}

func columns(width int) []table.Column {
	email := width - 22 - 16 - 12 - 8 - 10
	if email < 12 {
		email = 12
	}
	return []table.Column{
		{Title: "Nome", Width: 22},
		{Title: "Usuário", Width: 16},
		{Title: "E-mail", Width: email},
		{Title: "Papel", Width: 12},
		{Title: "Ativas", Width: 8},
	}
}

func tableHeight(height int) int {
	h := height - 16
	if h < 3 {
		h = 3
	}
	return h
}

// SetSession replaces the session the page is gated on.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Open starts a new page lifetime and fetches the overview.
func (m *Model) Open() tea.Cmd {
	m.mode = modeList
	m.closeEditor()
	if !session.Gate(m.sess, session.Need(session.ResourceNotifications, session.ActionView)) {
		return nil
	}
	m.life.Begin()
	return m.load()
}

// Close cancels in-flight requests and drops an unsaved preference draft.
func (m *Model) Close() {
	m.life.End()
	m.closeEditor()
	m.mode = modeList
}

// Capturing reports whether keystrokes belong to an input on this page.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Visible returns the users passing the current filter.
func (m Model) Visible() []model.User { return m.visible }

// Overview returns the last loaded overview, or nil.
func (m Model) Overview() *model.NotificationOverview { return m.overview }

// Draft returns the preference draft being edited, or nil.
func (m Model) Draft() *form.Preferences { return m.prefs }

func (m *Model) load() tea.Cmd {
	ctx, gen := m.life.Context()
	svc := m.svc
	m.loading = true
	return func() tea.Msg {
		ov, err := svc.NotificationOverview(ctx)
		return overviewLoadedMsg{gen: gen, overview: ov, err: err}
	}
}

func (m *Model) applyFilter() {
	var users []model.User
	if m.overview != nil {
		users = m.overview.Usuarios
	}
	m.visible = m.filter.Apply(users)
	rows := make([]table.Row, 0, len(m.visible))
	for _, u := range m.visible {
		rows = append(rows, table.Row{
			u.Nome,
			u.Username,
			u.Email,
			session.ParseRole(u.Role).Label(),
			fmt.Sprintf("%d/%d", enabledCount(u.Preferencias), m.catalogSize()),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func enabledCount(prefs map[string]bool) int {
	n := 0
	for _, on := range prefs {
		if on {
			n++
		}
	}
	return n
}

func (m Model) catalogSize() int {
	if m.overview == nil {
		return 0
	}
	return len(m.overview.TiposDisponiveis)
}

func (m Model) catalog() []model.NotificationType {
	if m.overview == nil {
		return nil
	}
	return m.overview.TiposDisponiveis
}

func (m Model) selected() (model.User, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return model.User{}, false
	}
	return m.visible[c], true
}

// Update handles messages for the notifications page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case overviewLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("loading notification overview: %v", msg.err)
			m.loadErr = api.UserMessage(msg.err)
			m.overview = nil
			m.applyFilter()
			return m, banner.Error("Erro ao carregar notificações: " + m.loadErr)
		}
		m.loadErr = ""
		m.overview = msg.overview
		m.applyFilter()
		return m, nil

	case prefsSavedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		return m.handleSaved(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEditor(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSaved(msg prefsSavedMsg) (Model, tea.Cmd) {
	m.saving = false
	id := strconv.FormatInt(msg.user.ID, 10)

	if msg.err != nil {
		log.Printf("saving preferences of user %d: %v", msg.user.ID, msg.err)
		m.saveErr = api.UserMessage(msg.err)
		page.Record(m.rec, page.Actor(m.sess), "preferencias", id, "update", msg.err, m.saveErr)
		return m, banner.Error("Erro ao salvar preferências: " + m.saveErr)
	}

	text := fmt.Sprintf("Preferências de %s atualizadas com sucesso.", msg.user.DisplayName())
	page.Record(m.rec, page.Actor(m.sess), "preferencias", id, "update", nil, text)
	m.closeEditor()
	m.mode = modeList
	return m, tea.Batch(banner.Success(text), m.load())
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.filter.Query)
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleRole):
		order := []string{filter.All}
		for _, r := range session.Roles() {
			order = append(order, r.String())
		}
		m.filter.Role = filter.Cycle(m.filter.Role, order...)
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.CycleActive):
		m.filter.Active = filter.NextActive(m.filter.Active)
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.filter = filter.UserFilter{Role: filter.All, Active: filter.All}
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		return m.openEditor()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openEditor() (Model, tea.Cmd) {
	if !m.sess.Can(session.ResourceNotifications, session.ActionUpdate) {
		return m, banner.Error(session.DeniedMessage)
	}
	u, ok := m.selected()
	if !ok {
		return m, nil
	}
	tipos := make([]string, 0, m.catalogSize())
	for _, t := range m.catalog() {
		tipos = append(tipos, t.Tipo)
	}
	m.editing = &u
	m.prefs = form.NewPreferences(u.ID, u.Preferencias, tipos)
	m.cursor = 0
	m.saveErr = ""
	m.mode = modeEdit
	return m, nil
}

func (m *Model) closeEditor() {
	m.editing = nil
	m.prefs = nil
	m.cursor = 0
	m.saving = false
	m.saveErr = ""
}

func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	n := m.catalogSize()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeEditor()
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}

	case key.Matches(msg, m.keys.Up):
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < n {
			m.prefs.Toggle(m.catalog()[m.cursor].Tipo)
		}

	case key.Matches(msg, m.keys.Save):
		return m.save()
	}
	return m, nil
}

// save sends the full preference map of the edited user.
func (m Model) save() (Model, tea.Cmd) {
	if m.prefs == nil || m.editing == nil || m.saving {
		return m, nil
	}
	m.saving = true
	m.saveErr = ""

	ctx, gen := m.life.Context()
	svc := m.svc
	user := *m.editing
	values := m.prefs.Values()
	return m, func() tea.Msg {
		err := svc.UpdatePreferences(ctx, user.ID, values)
		return prefsSavedMsg{gen: gen, user: user, err: err}
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Query = ""
		m.applyFilter()
		m.mode = modeList
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.applyFilter()
	return m, cmd
}

// View renders the notifications page.
func (m Model) View() string {
	return session.Guard(m.sess, session.Need(session.ResourceNotifications, session.ActionView), m.render)
}

func (m Model) render() string {
	if m.mode == modeEdit {
		return m.viewEditor()
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Notificações"))
	b.WriteString("\n")

	switch {
	case m.loading && m.overview == nil:
		b.WriteString(theme.DimmedStyle.Render("Carregando notificações..."))
	case m.loadErr != "":
		b.WriteString(theme.DimmedStyle.Render("Não foi possível carregar as notificações."))
	case m.overview != nil:
		b.WriteString(m.viewStats())
		b.WriteString("\n\n")
		b.WriteString(m.viewUsers())
		b.WriteString("\n\n")
		b.WriteString(m.viewRecent())
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("/ buscar | p papel | f ativos | enter preferências | r atualizar"))
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewStats() string {
	s := m.overview.Estatisticas
	cards := []string{
		statCard("Usuários", s.TotalUsuarios),
		statCard("Ativos", s.UsuariosAtivos),
		statCard("Hoje", s.NotificacoesHoje),
		statCard("Não lidas", s.NotificacoesNaoLidas),
	}
	if m.width < 70 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(label string, n int) string {
	value := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render(strconv.Itoa(n))
	return theme.PanelStyle.Width(14).Render(value + "\n" + theme.DimmedStyle.Render(label))
}

func (m Model) viewUsers() string {
	var b strings.Builder
	header := fmt.Sprintf("Usuários (%d)", len(m.visible))
	var narrowed []string
	if m.filter.Query != "" {
		narrowed = append(narrowed, fmt.Sprintf("busca %q", m.filter.Query))
	}
	if m.filter.Role != filter.All {
		narrowed = append(narrowed, session.ParseRole(m.filter.Role).Label())
	}
	if m.filter.Active != filter.All {
		narrowed = append(narrowed, m.filter.Active)
	}
	if len(narrowed) > 0 {
		header += " · " + strings.Join(narrowed, " · ")
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhum usuário encontrado."))
		return b.String()
	}
	b.WriteString(m.table.View())
	return b.String()
}

func (m Model) viewRecent() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Notificações recentes"))
	b.WriteString("\n")
	recent := m.overview.NotificacoesRecentes
	if len(recent) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhuma notificação recente."))
		return b.String()
	}
	for _, n := range recent {
		mark := "●"
		if n.Lida {
			mark = theme.DimmedStyle.Render("○")
		}
		line := fmt.Sprintf("%s %s  %s", mark, n.Titulo, theme.DimmedStyle.Render(n.UsuarioNome))
		if !n.CreatedAt.IsZero() {
			line += theme.DimmedStyle.Render("  " + n.CreatedAt.Local().Format("02/01 15:04"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewEditor() string {
	if m.editing == nil || m.prefs == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Preferências de " + m.editing.DisplayName()))
	b.WriteString("\n")

	for i, t := range m.catalog() {
		box := "[ ]"
		if m.prefs.Enabled(t.Tipo) {
			box = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("[x]")
		}
		line := fmt.Sprintf("%s %s", box, t.Nome)
		if t.Descricao != "" {
			line += theme.DimmedStyle.Render("  " + t.Descricao)
		}
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.catalog()) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhum tipo de notificação disponível."))
		b.WriteString("\n")
	}

	switch {
	case m.saving:
		b.WriteString("\n" + theme.DimmedStyle.Render("Salvando..."))
	case m.saveErr != "":
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.ColorRed).Bold(true).Render(m.saveErr))
	case m.prefs.Dirty():
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("Alterações não salvas"))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("espaço alternar | s salvar | esc cancelar"))
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(tableHeight(height))
}
