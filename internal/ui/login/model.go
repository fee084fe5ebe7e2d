package login

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/theme"
	"github.com/nhle/maintenance-admin/internal/ui/page"
)

// Authenticator is the part of the API the login page uses.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error)
}

// LoggedInMsg is dispatched when the backend accepted the credentials.
type LoggedInMsg struct {
	Token string
	User  model.User
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	nome     string
	username string
	email    string
	senha    string
	confirma string
}

type authResultMsg struct {
	gen int
	res *model.AuthResult
	err error
}

// Model is the authentication page.
type Model struct {
	api        Authenticator
	life       *page.Lifetime
	fb         *formBindings
	mode       mode
	form       *huh.Form
	submitting bool
	message    string
	notice     string
	width      int
	height     int
}

// New creates a login page.
func New(a Authenticator, width, height int) Model {
	return Model{
		api:    a,
		life:   page.NewLifetime(),
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init builds a fresh login form.
func (m *Model) Init() tea.Cmd {
	m.life.Begin()
	m.submitting = false
	m.fb.senha = ""
	m.fb.confirma = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetNotice shows an informational line above the form, e.g. after the
// session expired.
func (m *Model) SetNotice(text string) {
	m.notice = text
}

// Notice returns the informational line shown above the form.
func (m Model) Notice() string { return m.notice }

// Close cancels a pending login.
func (m *Model) Close() {
	m.life.End()
}

// Message returns the error shown under the form.
func (m Model) Message() string { return m.message }

// Registering reports whether the sign-up form is shown.
func (m Model) Registering() bool { return m.mode == modeRegister }

// Update handles messages for the login page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case authResultMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			log.Printf("authentication failed: %v", msg.err)
			m.message = api.UserMessage(msg.err)
			m.fb.senha = ""
			m.fb.confirma = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.message = ""
		res := msg.res
		return m, func() tea.Msg {
			return LoggedInMsg{Token: res.Token, User: res.Usuario}
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" && !m.submitting {
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.message = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
	}

	if m.form == nil || m.submitting {
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
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	return m, cmd
}

// submit sends the bound credentials.
func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.message = ""

	ctx, gen := m.life.Context()
	a := m.api
	fb := *m.fb

	if m.mode == modeRegister {
		reg := model.Registration{
			Nome:     strings.TrimSpace(fb.nome),
			Username: strings.TrimSpace(fb.username),
			Email:    strings.TrimSpace(fb.email),
			Senha:    fb.senha,
		}
		return m, func() tea.Msg {
			res, err := a.Register(ctx, reg)
			return authResultMsg{gen: gen, res: res, err: err}
		}
	}

	creds := model.Credentials{Email: strings.TrimSpace(fb.email), Senha: fb.senha}
	return m, func() tea.Msg {
		res, err := a.Login(ctx, creds)
		return authResultMsg{gen: gen, res: res, err: err}
	}
}

func (m Model) buildForm() *huh.Form {
	var fields []huh.Field

	if m.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Nome").
				Value(&m.fb.nome).
				Validate(validateRequired("Nome")),
			huh.NewInput().
				Title("Usuário").
				Value(&m.fb.username).
				Validate(validateRequired("Usuário")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("E-mail").
			Placeholder("nome@empresa.com").
			Value(&m.fb.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Senha").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.senha).
			Validate(m.validatePassword),
	)

	if m.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Confirmar senha").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirma).
				Validate(func(s string) error {
					if s != m.fb.senha {
						return fmt.Errorf("as senhas não conferem")
					}
					return nil
				}),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithShowHelp(false)
}

func (m Model) validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("Senha é obrigatória")
	}
	if m.mode == modeRegister && len([]rune(s)) < 6 {
		return fmt.Errorf("a senha deve ter ao menos 6 caracteres")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s é obrigatório", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("E-mail é obrigatório")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("e-mail inválido")
	}
	return nil
}

// View renders the login page.
func (m Model) View() string {
	var b strings.Builder

	title := "Entrar"
	toggle := "ctrl+n criar conta"
	if m.mode == modeRegister {
		title = "Criar conta"
		toggle = "ctrl+n voltar ao login"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(m.notice))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(theme.DimmedStyle.Render("Autenticando..."))
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorRed).Bold(true).Render(m.message))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter confirmar | " + toggle))

	box := theme.PanelStyle.Padding(1, 3).Width(m.formWidth() + 8).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 12
	if w < 30 {
		w = 30
	}
	if w > 60 {
		w = 60
	}
	return w
}
