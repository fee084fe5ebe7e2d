package sectors

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
	"github.com/charmbracelet/huh"
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

// narrowWidth is the width below which sectors render as cards.
const narrowWidth = 70

// Service is the part of the API the sectors page uses.
type Service interface {
	Sectors(ctx context.Context) ([]model.Sector, error)
	CreateSector(ctx context.Context, in model.SectorInput) (*model.Sector, error)
	UpdateSector(ctx context.Context, id int64, in model.SectorInput) (*model.Sector, error)
	DeleteSector(ctx context.Context, id int64) error
}

// OpenDetailMsg asks the parent to show the users of a sector.
type OpenDetailMsg struct {
	Sector model.Sector
}

type sectorMode int

const (
	modeList sectorMode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	nome      string
	descricao string
	ativo     bool
	confirm   bool
}

type sectorsLoadedMsg struct {
	gen     int
	sectors []model.Sector
	err     error
}

type sectorSavedMsg struct {
	gen int
	sub form.Submission[model.SectorInput]
	err error
}

type sectorDeletedMsg struct {
	gen    int
	sector model.Sector
	err    error
}

// Model is the sector management page.
type Model struct {
	mode        sectorMode
	svc         Service
	rec         page.Recorder
	sess        *session.Session
	keys        *keys.KeyMap
	life        *page.Lifetime
	all         []model.Sector
	visible     []model.Sector
	filter      filter.SectorFilter
	table       table.Model
	search      textinput.Model
	dialog      form.Machine[model.SectorInput]
	form        *huh.Form
	confirmForm *huh.Form
	deleting    *model.Sector
	fb          *formBindings
	loading     bool
	loadErr     string
	width       int
	height      int
}

// New creates a sectors page.
func New(svc Service, rec page.Recorder, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "buscar por nome ou descrição"
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
		mode:   modeList,
		svc:    svc,
		rec:    rec,
		keys:   k,
		life:   page.NewLifetime(),
		filter: filter.SectorFilter{Active: filter.All},
		table:  t,
		search: ti,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

func columns(width int) []table.Column {
	desc := width - 6 - 24 - 10 - 10
	if desc < 10 {
		desc = 10
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Nome", Width: 24},
		{Title: "Descrição", Width: desc},
		{Title: "Status", Width: 10},
	}
}

func tableHeight(height int) int {
	h := height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// SetSession replaces the session actions are gated on.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
}

// Open starts a new page lifetime and fetches the sector list.
func (m *Model) Open() tea.Cmd {
	m.mode = modeList
	m.dialog.Close()
	m.deleting = nil
	if !session.Gate(m.sess, session.Need(session.ResourceSectors, session.ActionView)) {
		return nil
	}
	m.life.Begin()
	return m.load()
}

// Close cancels in-flight requests and discards any open dialog.
func (m *Model) Close() {
	m.life.End()
	m.dialog.Close()
	m.mode = modeList
}

// Capturing reports whether keystrokes belong to an input on this page.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Visible returns the sectors passing the current filter, in backend order.
func (m Model) Visible() []model.Sector { return m.visible }

// Filter returns the current filter state.
func (m Model) Filter() filter.SectorFilter { return m.filter }

// Dialog exposes the edit dialog state.
func (m Model) Dialog() *form.Machine[model.SectorInput] { return &m.dialog }

func (m *Model) load() tea.Cmd {
	ctx, gen := m.life.Context()
	svc := m.svc
	m.loading = true
	return func() tea.Msg {
		sectors, err := svc.Sectors(ctx)
		return sectorsLoadedMsg{gen: gen, sectors: sectors, err: err}
	}
}

func (m *Model) applyFilter() {
	m.visible = m.filter.Apply(m.all)
	rows := make([]table.Row, 0, len(m.visible))
	for _, s := range m.visible {
		status := "inativo"
		if s.Ativo {
			status = "ativo"
		}
		rows = append(rows, table.Row{strconv.FormatInt(s.ID, 10), s.Nome, s.Descricao, status})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selected() (model.Sector, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return model.Sector{}, false
	}
	return m.visible[c], true
}

// Update handles messages for the sectors page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case sectorsLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("loading sectors: %v", msg.err)
			m.loadErr = api.UserMessage(msg.err)
			m.all = nil
			m.applyFilter()
			return m, banner.Error("Erro ao carregar setores: " + m.loadErr)
		}
		m.loadErr = ""
		m.all = msg.sectors
		m.applyFilter()
		return m, nil

	case sectorSavedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		return m.handleSaved(msg)

	case sectorDeletedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		return m.handleDeleted(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleSaved(msg sectorSavedMsg) (Model, tea.Cmd) {
	id := strconv.FormatInt(msg.sub.ID, 10)
	action := "update"
	if msg.sub.Creating() {
		action = "create"
		id = ""
	}

	// The dialog may have been dismissed, or reopened for another sector,
	// while the request was in flight. Only the pending submission
	// resolves the dialog; the outcome is reported either way.
	pending := m.dialog.Pending(msg.sub)

	if msg.err != nil {
		log.Printf("saving sector %q: %v", msg.sub.Draft.Nome, msg.err)
		text := api.UserMessage(msg.err)
		page.Record(m.rec, page.Actor(m.sess), "setor", id, action, msg.err, text)
		if !pending {
			return m, banner.Error("Erro ao salvar setor: " + text)
		}
		_ = m.dialog.Fail(text)
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	text := fmt.Sprintf("Setor %q atualizado com sucesso.", msg.sub.Draft.Nome)
	if msg.sub.Creating() {
		text = fmt.Sprintf("Setor %q criado com sucesso.", msg.sub.Draft.Nome)
	}
	page.Record(m.rec, page.Actor(m.sess), "setor", id, action, nil, text)

	if pending {
		_ = m.dialog.Succeed()
		m.mode = modeList
		m.form = nil
	}
	return m, tea.Batch(banner.Success(text), m.load())
}

func (m Model) handleDeleted(msg sectorDeletedMsg) (Model, tea.Cmd) {
	m.mode = modeList
	m.deleting = nil
	id := strconv.FormatInt(msg.sector.ID, 10)

	if msg.err != nil {
		log.Printf("deleting sector %d: %v", msg.sector.ID, msg.err)
		text := api.UserMessage(msg.err)
		page.Record(m.rec, page.Actor(m.sess), "setor", id, "delete", msg.err, text)
		return m, banner.Error("Erro ao excluir setor: " + text)
	}

	text := fmt.Sprintf("Setor %q excluído com sucesso.", msg.sector.Nome)
	page.Record(m.rec, page.Actor(m.sess), "setor", id, "delete", nil, text)
	return m, tea.Batch(banner.Success(text), m.load())
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.filter.Query)
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleActive):
		m.filter.Active = filter.NextActive(m.filter.Active)
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.filter.Narrowed() {
			m.filter = filter.SectorFilter{Active: filter.All}
			m.applyFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if s, ok := m.selected(); ok {
			return m, func() tea.Msg { return OpenDetailMsg{Sector: s} }
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.openCreate()

	case key.Matches(msg, m.keys.Edit):
		return m.openEdit()

	case key.Matches(msg, m.keys.Delete):
		return m.openDelete()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openCreate() (Model, tea.Cmd) {
	if !m.sess.Can(session.ResourceSectors, session.ActionCreate) {
		return m, banner.Error(session.DeniedMessage)
	}
	m.dialog.OpenCreate(model.DefaultSectorInput())
	m.bind(m.dialog.Draft())
	m.form = m.buildForm()
	m.mode = modeForm
	return m, m.form.Init()
}

func (m Model) openEdit() (Model, tea.Cmd) {
	if !m.sess.Can(session.ResourceSectors, session.ActionUpdate) {
		return m, banner.Error(session.DeniedMessage)
	}
	s, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.dialog.OpenEdit(s.ID, s.Input())
	m.bind(m.dialog.Draft())
	m.form = m.buildForm()
	m.mode = modeForm
	return m, m.form.Init()
}

func (m Model) openDelete() (Model, tea.Cmd) {
	if !m.sess.Can(session.ResourceSectors, session.ActionDelete) {
		return m, banner.Error(session.DeniedMessage)
	}
	s, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.deleting = &s
	m.fb.confirm = false
	m.confirmForm = m.buildConfirmForm()
	m.mode = modeConfirmDelete
	return m, m.confirmForm.Init()
}

func (m Model) bind(in model.SectorInput) {
	m.fb.nome = in.Nome
	m.fb.descricao = in.Descricao
	m.fb.ativo = in.Ativo
}

func (m Model) draft() model.SectorInput {
	return model.SectorInput{
		Nome:      strings.TrimSpace(m.fb.nome),
		Descricao: strings.TrimSpace(m.fb.descricao),
		Ativo:     m.fb.ativo,
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

func (m Model) buildForm() *huh.Form {
	title := "Novo setor"
	if m.dialog.Editing() {
		title = "Editar setor"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nome").
				Placeholder("Manutenção elétrica").
				Value(&m.fb.nome).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Nome é obrigatório")
					}
					return nil
				}),
			huh.NewText().
				Title("Descrição").
				Lines(3).
				Value(&m.fb.descricao),
			huh.NewConfirm().
				Title("Ativo").
				Affirmative("Sim").
				Negative("Não").
				Value(&m.fb.ativo),
		).Title(title),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithShowHelp(false)
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.deleting != nil {
		name = m.deleting.Nome
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Excluir o setor %q?", name)).
				Description("Esta ação não pode ser desfeita.").
				Affirmative("Sim, excluir").
				Negative("Cancelar").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.dialog.Close()
		m.mode = modeList
		m.form = nil
		return m, nil
	}
	if m.dialog.State() == form.Submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submitForm()
	case huh.StateAborted:
		m.dialog.Close()
		m.mode = modeList
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submitForm sends the bound draft: POST when creating, PUT when editing.
func (m Model) submitForm() (Model, tea.Cmd) {
	m.dialog.SetDraft(m.draft())
	sub, err := m.dialog.Begin()
	if err != nil {
		return m, nil
	}

	ctx, gen := m.life.Context()
	svc := m.svc
	return m, func() tea.Msg {
		var err error
		if sub.Creating() {
			_, err = svc.CreateSector(ctx, sub.Draft)
		} else {
			_, err = svc.UpdateSector(ctx, sub.ID, sub.Draft)
		}
		return sectorSavedMsg{gen: gen, sub: sub, err: err}
	}
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		if m.fb.confirm {
			return m.confirmDelete()
		}
		m.mode = modeList
		m.deleting = nil
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		m.deleting = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) confirmDelete() (Model, tea.Cmd) {
	if m.deleting == nil {
		m.mode = modeList
		return m, nil
	}
	ctx, gen := m.life.Context()
	svc := m.svc
	s := *m.deleting
	return m, func() tea.Msg {
		err := svc.DeleteSector(ctx, s.ID)
		return sectorDeletedMsg{gen: gen, sector: s, err: err}
	}
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	case modeSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the sectors page.
func (m Model) View() string {
	return session.Guard(m.sess, session.Need(session.ResourceSectors, session.ActionView), m.render)
}

func (m Model) render() string {
	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeConfirmDelete:
		return m.viewConfirm()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Setores"))
	b.WriteString("  ")
	b.WriteString(theme.DimmedStyle.Render(m.filterSummary()))
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch {
	case m.loading && len(m.all) == 0:
		b.WriteString(theme.DimmedStyle.Render("Carregando setores..."))
	case m.loadErr != "":
		b.WriteString(theme.DimmedStyle.Render("Não foi possível carregar os setores."))
	case len(m.visible) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nenhum setor encontrado."))
	case m.width < narrowWidth:
		b.WriteString(m.viewCards())
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render(m.hints()))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) filterSummary() string {
	parts := []string{fmt.Sprintf("%d de %d", len(m.visible), len(m.all))}
	if m.filter.Query != "" {
		parts = append(parts, fmt.Sprintf("busca %q", m.filter.Query))
	}
	if m.filter.Active != filter.All {
		parts = append(parts, m.filter.Active)
	}
	return strings.Join(parts, " · ")
}

func (m Model) viewCards() string {
	var cards []string
	cursor := m.table.Cursor()
	for i, s := range m.visible {
		status := theme.ActiveStyle(s.Ativo).Render("inativo")
		if s.Ativo {
			status = theme.ActiveStyle(true).Render("ativo")
		}
		body := lipgloss.NewStyle().Bold(true).Render(s.Nome) + "  " + status
		if s.Descricao != "" {
			body += "\n" + theme.DimmedStyle.Render(s.Descricao)
		}
		style := theme.PanelStyle
		if i == cursor {
			style = theme.SelectedPanelStyle
		}
		cards = append(cards, style.Width(max(m.width-8, 20)).Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) hints() string {
	hints := []string{"/ buscar", "f ativos", "enter usuários", "r atualizar"}
	if m.sess.Can(session.ResourceSectors, session.ActionCreate) {
		hints = append(hints, "n novo")
	}
	if m.sess.Can(session.ResourceSectors, session.ActionUpdate) {
		hints = append(hints, "e editar")
	}
	if m.sess.Can(session.ResourceSectors, session.ActionDelete) {
		hints = append(hints, "d excluir")
	}
	return strings.Join(hints, " | ")
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	switch m.dialog.State() {
	case form.Submitting:
		b.WriteString(theme.DimmedStyle.Render("Salvando..."))
	default:
		b.WriteString(m.form.View())
	}
	if msg := m.dialog.Message(); msg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorRed).Bold(true).Render(msg))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter salvar | esc cancelar"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) viewConfirm() string {
	if m.confirmForm == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(tableHeight(height))
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}
