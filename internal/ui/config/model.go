package config

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeForm       ConfigMode = iota // Editing settings
	ModeValidating                   // Testing the API address
	ModeFailed                       // Address unreachable or save failed
)

// probeTimeout bounds the connection test.
const probeTimeout = 10 * time.Second

// ConfigDoneMsg signals the settings view should close without changes.
type ConfigDoneMsg struct{}

// ConfigSavedMsg carries the configuration after it was written to disk.
type ConfigSavedMsg struct {
	Config *model.AppConfig
}

// Prober checks that an API address is reachable.
type Prober interface {
	Probe(ctx context.Context, baseURL string) error
}

// validateResultMsg carries the outcome of probing and saving.
type validateResultMsg struct {
	cfg *model.AppConfig
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL     string
	timeoutSec  string
	perSec      string
	recentLimit string
}

// Model is the Bubble Tea model for the settings UI.
type Model struct {
	mode    ConfigMode
	prober  Prober
	path    string
	current model.AppConfig
	form    *huh.Form
	fb      *formBindings
	spinner spinner.Model
	failure string
	width   int
	height  int
}

// New creates a settings view editing cfg, which is written to path on save.
func New(p Prober, path string, cfg *model.AppConfig, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	m := Model{
		prober:  p,
		path:    path,
		fb:      &formBindings{},
		spinner: sp,
		width:   width,
		height:  height,
	}
	if cfg != nil {
		m.current = *cfg
	}
	return m
}

// Init seeds the form from the current configuration.
func (m *Model) Init() tea.Cmd {
	m.mode = ModeForm
	m.failure = ""
	m.resetFormFields()
	m.form = m.buildForm()
	return m.form.Init()
}

// FirstRun reports whether no API address is configured yet. The view
// cannot be dismissed until one is saved.
func (m Model) FirstRun() bool {
	return m.current.API.BaseURL == ""
}

// Mode returns the current state.
func (m Model) Mode() ConfigMode { return m.mode }

// Failure returns the last probe or save error.
func (m Model) Failure() string { return m.failure }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case validateResultMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("saving settings: %v", msg.err)
			m.failure = msg.err.Error()
			m.mode = ModeFailed
			return m, nil
		}
		m.current = *msg.cfg
		cfg := msg.cfg
		return m, func() tea.Msg { return ConfigSavedMsg{Config: cfg} }

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeValidating:
		if msg.Type == tea.KeyEsc {
			m.mode = ModeForm
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, nil

	case ModeFailed:
		switch {
		case msg.Type == tea.KeyEnter, msg.Type == tea.KeyEsc, msg.String() == "r":
			m.mode = ModeForm
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, nil
	}

	if msg.Type == tea.KeyEsc && !m.FirstRun() {
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m.updateForm(msg)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode != ModeForm {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		if m.FirstRun() {
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, cmd
}

// submit probes the address and, if it answers, writes the configuration.
func (m Model) submit() (Model, tea.Cmd) {
	cfg, err := m.buildConfig()
	if err != nil {
		m.failure = err.Error()
		m.mode = ModeFailed
		return m, nil
	}
	m.mode = ModeValidating
	m.failure = ""
	return m, tea.Batch(m.spinner.Tick, m.validateAndSave(cfg))
}

// validateAndSave validates the connection then saves the settings if successful.
func (m Model) validateAndSave(cfg *model.AppConfig) tea.Cmd {
	p := m.prober
	path := m.path
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		if p != nil {
			if err := p.Probe(ctx, cfg.API.BaseURL); err != nil {
				return validateResultMsg{err: fmt.Errorf("%s (%s)", api.UserMessage(err), cfg.API.BaseURL)}
			}
		}

		if err := model.SaveConfig(path, cfg); err != nil {
			return validateResultMsg{err: fmt.Errorf("conexão OK, mas não foi possível salvar: %w", err)}
		}
		return validateResultMsg{cfg: cfg}
	}
}

func (m Model) buildConfig() (*model.AppConfig, error) {
	cfg := m.current
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")

	timeout, err := strconv.Atoi(strings.TrimSpace(m.fb.timeoutSec))
	if err != nil {
		return nil, fmt.Errorf("tempo limite inválido: %q", m.fb.timeoutSec)
	}
	cfg.API.TimeoutSec = timeout

	perSec, err := strconv.ParseFloat(strings.TrimSpace(m.fb.perSec), 64)
	if err != nil {
		return nil, fmt.Errorf("limite de requisições inválido: %q", m.fb.perSec)
	}
	cfg.API.RequestsPerSec = perSec

	limit, err := strconv.Atoi(strings.TrimSpace(m.fb.recentLimit))
	if err != nil {
		return nil, fmt.Errorf("quantidade de relatórios inválida: %q", m.fb.recentLimit)
	}
	cfg.Display.RecentLimit = limit
	return &cfg, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endereço da API").
				Description("Raiz da API REST, por exemplo https://manutencao.example.com/api").
				Placeholder("https://").
				Value(&m.fb.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Tempo limite (segundos)").
				Value(&m.fb.timeoutSec).
				Validate(validatePositive("Tempo limite")),
			huh.NewInput().
				Title("Requisições por segundo").
				Description("0 desativa o limite").
				Value(&m.fb.perSec).
				Validate(validateRate),
			huh.NewInput().
				Title("Relatórios recentes no painel").
				Value(&m.fb.recentLimit).
				Validate(validatePositive("Quantidade")),
		).Title("Configurações"),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

// View renders the settings view.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	switch m.mode {
	case ModeValidating:
		return style.Render(fmt.Sprintf(
			"%s Testando conexão com %s...\n\n%s",
			m.spinner.View(),
			m.fb.baseURL,
			theme.HelpStyle.Render("esc cancelar"),
		))

	case ModeFailed:
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed)
		return style.Render(
			errStyle.Render("Não foi possível salvar") + "\n\n" +
				m.failure + "\n\n" +
				theme.HelpStyle.Render("enter/esc voltar ao formulário"),
		)
	}

	var b strings.Builder
	if m.FirstRun() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(
			"Nenhum endereço de API configurado. Informe-o para continuar.",
		))
		b.WriteString("\n\n")
	}
	if m.form != nil {
		b.WriteString(m.form.View())
	}
	b.WriteString("\n\n")
	hint := "enter salvar | esc voltar"
	if m.FirstRun() {
		hint = "enter salvar"
	}
	b.WriteString(theme.HelpStyle.Render(hint))
	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render("Arquivo: " + m.path))
	return style.Render(b.String())
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 90 {
		w = 90
	}
	return w
}

func (m *Model) resetFormFields() {
	c := m.current
	m.fb.baseURL = c.API.BaseURL
	m.fb.timeoutSec = strconv.Itoa(c.API.TimeoutSec)
	m.fb.perSec = strconv.FormatFloat(c.API.RequestsPerSec, 'f', -1, 64)
	m.fb.recentLimit = strconv.Itoa(c.Display.RecentLimit)
}

// --- Validators ---

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("o endereço é obrigatório")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("endereço inválido: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("o endereço deve incluir esquema e host (ex.: https://example.com/api)")
	}
	return nil
}

func validatePositive(fieldName string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s deve ser um número inteiro positivo", fieldName)
		}
		return nil
	}
}

func validateRate(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return fmt.Errorf("informe um número maior ou igual a zero")
	}
	return nil
}
