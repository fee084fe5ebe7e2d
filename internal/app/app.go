package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/store"
	"github.com/nhle/maintenance-admin/internal/theme"
	"github.com/nhle/maintenance-admin/internal/ui"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/internal/ui/command"
	configview "github.com/nhle/maintenance-admin/internal/ui/config"
	"github.com/nhle/maintenance-admin/internal/ui/dashboard"
	"github.com/nhle/maintenance-admin/internal/ui/detail"
	helpview "github.com/nhle/maintenance-admin/internal/ui/help"
	"github.com/nhle/maintenance-admin/internal/ui/journal"
	"github.com/nhle/maintenance-admin/internal/ui/login"
	"github.com/nhle/maintenance-admin/internal/ui/notifications"
	"github.com/nhle/maintenance-admin/internal/ui/sectors"
)

// Notices shown above the login form.
const (
	NoticeExpired  = "Sua sessão expirou. Entre novamente."
	NoticeInactive = "Usuário inativo. Procure um administrador."
)

// profileTimeout bounds the profile refresh after a restored session.
const profileTimeout = 15 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewSectors
	ViewSectorDetail
	ViewNotifications
	ViewJournal
	ViewConfig
	ViewHelp
	ViewCommand
)

// Backend is everything the console asks of the REST API.
type Backend interface {
	login.Authenticator
	dashboard.Source
	sectors.Service
	detail.UserSource
	notifications.Service
	configview.Prober
	Profile(ctx context.Context) (*model.User, error)
	SetBaseURL(baseURL string)
}

// Tokens persists the bearer token between runs.
type Tokens interface {
	Token() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Deps carries what the application is built from.
type Deps struct {
	API        Backend
	Tokens     Tokens
	Journal    store.Store
	Config     *model.AppConfig
	ConfigPath string

	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionExpiredMsg reports that the backend rejected the bearer token.
// It is sent from outside the update loop, see api.WithUnauthorizedHandler.
type SessionExpiredMsg struct{}

type startMsg struct{}

type profileLoadedMsg struct {
	token string
	user  *model.User
	err   error
}

// Model is the root Bubble Tea model that manages view routing, the
// session, and the banner shared by every page.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	api          Backend
	tokens       Tokens
	cfg          *model.AppConfig
	now          func() time.Time
	keys         *keys.KeyMap
	sess         *session.Session
	banner       banner.Model

	loginView     login.Model
	dashboard     dashboard.Model
	sectors       sectors.Model
	detail        detail.Model
	notifications notifications.Model
	journal       journal.Model
	configView    configview.Model
	helpView      helpview.Model
	commandView   command.Model
	ready         bool
}

// New creates the root application model.
func New(d Deps) Model {
	km := keys.DefaultKeyMap()
	cfg := d.Config
	if cfg == nil {
		cfg = &model.AppConfig{}
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		currentView:   ViewLogin,
		api:           d.API,
		tokens:        d.Tokens,
		cfg:           cfg,
		now:           now,
		keys:          km,
		banner:        banner.New(cfg.Display.BannerDuration()),
		loginView:     login.New(d.API, 80, 24),
		dashboard:     dashboard.New(d.API, km, cfg.Display.RecentLimit, 80, 24),
		sectors:       sectors.New(d.API, d.Journal, km, 80, 24),
		detail:        detail.New(d.API, km, 80, 24),
		notifications: notifications.New(d.API, d.Journal, km, 80, 24),
		journal:       journal.New(d.Journal, km, 80, 24),
		configView:    configview.New(d.API, d.ConfigPath, cfg, 80, 24),
		helpView:      helpview.New(km, 80, 24),
		commandView:   command.New(80, 24),
	}
}

// Init starts the application: first-run settings, a restored session,
// or the login form.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Session returns the current session, or nil when logged out.
func (m Model) Session() *session.Session { return m.sess }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Banner returns the banner state.
func (m Model) Banner() banner.Model { return m.banner }

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if show, ok := msg.(banner.ShowMsg); ok {
		var cmd tea.Cmd
		m.banner, cmd = m.banner.Update(show)
		return m, cmd
	}
	var bannerCmd tea.Cmd
	m.banner, bannerCmd = m.banner.Update(msg)

	next, cmd := m.route(msg)
	return next, tea.Batch(bannerCmd, cmd)
}

func (m Model) route(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.sectors.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.notifications.SetSize(w, h)
		m.journal.SetSize(w, h)
		m.configView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case startMsg:
		if m.cfg.API.BaseURL == "" {
			return m, m.openConfig()
		}
		return m.restore()

	case profileLoadedMsg:
		if m.sess == nil || m.sess.Token != msg.token {
			return m, nil
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m.expire(NoticeExpired)
			}
			log.Printf("refreshing profile: %v", msg.err)
			return m, nil
		}
		if msg.user == nil {
			return m, nil
		}
		refreshed := m.sess.WithUser(*msg.user)
		if !refreshed.Authenticated() {
			return m.expire(NoticeInactive)
		}
		m.setSession(refreshed)
		return m, nil

	case login.LoggedInMsg:
		s := session.New(msg.Token, msg.User)
		if !s.Authenticated() {
			m.loginView.SetNotice(NoticeInactive)
			return m, m.loginView.Init()
		}
		m.loginView.SetNotice("")
		if err := m.tokens.SaveToken(msg.Token); err != nil {
			log.Printf("saving token: %v", err)
		}
		m.setSession(s)
		cmd := m.navigate(ViewDashboard)
		return m, tea.Batch(cmd, banner.Success(fmt.Sprintf("Bem-vindo, %s!", s.User.DisplayName())))

	case SessionExpiredMsg:
		if m.sess == nil {
			return m, nil
		}
		return m.expire(NoticeExpired)

	case sectors.OpenDetailMsg:
		m.currentView = ViewSectorDetail
		return m, m.detail.Open(msg.Sector)

	case detail.BackMsg:
		m.detail.Close()
		m.currentView = ViewSectors
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg.Command)

	case command.UnknownMsg:
		m.currentView = m.previousView
		return m, banner.Error(msg.Err.Error())

	case configview.ConfigSavedMsg:
		m.cfg = msg.Config
		m.api.SetBaseURL(msg.Config.API.BaseURL)
		ok := banner.Success("Configurações salvas.")
		if m.sess == nil {
			next, cmd := m.restore()
			return next, tea.Batch(ok, cmd)
		}
		return m, tea.Batch(ok, m.navigate(m.previousView))

	case configview.ConfigDoneMsg:
		if m.sess == nil {
			return m, m.navigate(ViewLogin)
		}
		return m, m.navigate(m.previousView)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.closePages()
			return m, tea.Quit
		}
		if !m.capturing() {
			if next, cmd, handled := m.handleGlobalKey(msg); handled {
				return next, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturing reports whether the active view consumes every keystroke.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewLogin, ViewConfig, ViewCommand:
		return true
	case ViewSectors:
		return m.sectors.Capturing()
	case ViewNotifications:
		return m.notifications.Capturing()
	}
	return false
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closePages()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.overlay(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.overlay(ViewCommand)
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Dashboard):
		return m, m.navigate(ViewDashboard), true

	case key.Matches(msg, m.keys.Sectors):
		return m, m.navigate(ViewSectors), true

	case key.Matches(msg, m.keys.Notifications):
		return m, m.navigate(ViewNotifications), true

	case key.Matches(msg, m.keys.Journal):
		return m, m.navigate(ViewJournal), true

	case key.Matches(msg, m.keys.Logout):
		next, cmd := m.logout()
		return next, cmd, true
	}

	if m.currentView == ViewHelp && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return m, nil, true
	}
	return m, nil, false
}

// overlay shows help or the command palette over the current page. The
// page underneath is remembered once, so overlays never return to each other.
func (m *Model) overlay(v ViewState) {
	if m.currentView != ViewHelp && m.currentView != ViewCommand {
		m.previousView = m.currentView
	}
	m.currentView = v
}

// navigate leaves the current page, cancelling its requests, and opens to.
func (m *Model) navigate(to ViewState) tea.Cmd {
	if to == ViewSectorDetail {
		to = ViewSectors
	}
	m.closePages()
	if to != ViewConfig {
		m.previousView = to
	}
	m.currentView = to

	switch to {
	case ViewLogin:
		return m.loginView.Init()
	case ViewDashboard:
		return m.dashboard.Open()
	case ViewSectors:
		return m.sectors.Open()
	case ViewNotifications:
		return m.notifications.Open()
	case ViewJournal:
		return m.journal.Open()
	case ViewConfig:
		return m.configView.Init()
	}
	return nil
}

func (m *Model) openConfig() tea.Cmd {
	prev := m.previousView
	cmd := m.navigate(ViewConfig)
	m.previousView = prev
	return cmd
}

// closePages cancels in-flight requests of every page.
func (m *Model) closePages() {
	m.loginView.Close()
	m.dashboard.Close()
	m.sectors.Close()
	m.detail.Close()
	m.notifications.Close()
	m.journal.Close()
}

func (m *Model) setSession(s *session.Session) {
	m.sess = s
	m.dashboard.SetSession(s)
	m.sectors.SetSession(s)
	m.detail.SetSession(s)
	m.notifications.SetSession(s)
	m.journal.SetSession(s)
	m.helpView.SetSession(s)
}

// restore resumes a persisted session from its token claims and refreshes
// the profile in the background. Without a usable token it shows login.
func (m Model) restore() (Model, tea.Cmd) {
	tok, err := m.tokens.Token()
	if err != nil {
		log.Printf("reading stored token: %v", err)
	}
	if tok == "" {
		return m, m.navigate(ViewLogin)
	}

	s, err := session.Restore(tok, m.now())
	if err != nil {
		log.Printf("discarding stored token: %v", err)
		return m.expire(NoticeExpired)
	}
	m.setSession(s)
	open := m.navigate(ViewDashboard)

	backend := m.api
	refresh := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
		defer cancel()
		u, err := backend.Profile(ctx)
		return profileLoadedMsg{token: tok, user: u, err: err}
	}
	return m, tea.Batch(open, refresh)
}

// expire ends the session and shows the login form with notice.
func (m Model) expire(notice string) (Model, tea.Cmd) {
	if err := m.tokens.ClearToken(); err != nil {
		log.Printf("clearing token: %v", err)
	}
	m.setSession(nil)
	m.loginView.SetNotice(notice)
	return m, m.navigate(ViewLogin)
}

func (m Model) logout() (Model, tea.Cmd) {
	next, cmd := m.expire("")
	return next, tea.Batch(cmd, banner.Success("Sessão encerrada."))
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewSectors:
		m.sectors, cmd = m.sectors.Update(msg)
	case ViewSectorDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewNotifications:
		m.notifications, cmd = m.notifications.Update(msg)
	case ViewJournal:
		m.journal, cmd = m.journal.Update(msg)
	case ViewConfig:
		m.configView, cmd = m.configView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
			m.commandView.Blur()
			m.currentView = m.previousView
			return m, nil
		}
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// executeCommand handles a command from the command palette.
func (m Model) executeCommand(c command.Command) (Model, tea.Cmd) {
	switch c {
	case command.Dashboard:
		return m, m.navigate(ViewDashboard)
	case command.Sectors:
		return m, m.navigate(ViewSectors)
	case command.Notifications:
		return m, m.navigate(ViewNotifications)
	case command.Journal:
		return m, m.navigate(ViewJournal)
	case command.Settings:
		return m, m.openConfig()
	case command.Refresh:
		if m.currentView == ViewSectorDetail {
			return m, m.detail.Refresh()
		}
		return m, m.navigate(m.currentView)
	case command.Logout:
		return m.logout()
	case command.Quit:
		m.closePages()
		return m, tea.Quit
	}
	return m, nil
}

var viewTitles = map[ViewState]string{
	ViewLogin:         "Entrar",
	ViewDashboard:     "Painel",
	ViewSectors:       "Setores",
	ViewSectorDetail:  "Setor",
	ViewNotifications: "Notificações",
	ViewJournal:       "Histórico",
	ViewConfig:        "Configurações",
	ViewHelp:          "Ajuda",
	ViewCommand:       "Comando",
}

// View renders the frame around the active view.
func (m Model) View() string {
	if !m.ready {
		return theme.DimmedStyle.Render("Carregando...")
	}

	var content string
	switch m.currentView {
	case ViewLogin:
		content = m.loginView.View()
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewSectors:
		content = m.sectors.View()
	case ViewSectorDetail:
		content = m.detail.View()
	case ViewNotifications:
		content = m.notifications.View()
	case ViewJournal:
		content = m.journal.View()
	case ViewConfig:
		content = m.configView.View()
	case ViewHelp:
		content = m.helpView.View()
	case ViewCommand:
		content = m.commandView.View()
	}

	header := m.layout.RenderHeader("Manutenção · "+viewTitles[m.currentView], m.userLabel())
	return m.layout.RenderWithFrame(header, m.banner.View(), content, m.layout.RenderStatusBar(m.hints()))
}

func (m Model) userLabel() string {
	if !m.sess.Authenticated() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", m.sess.User.DisplayName(), m.sess.Role().Label())
}

func (m Model) hints() string {
	if m.sess == nil || m.currentView == ViewLogin {
		return "ctrl+c sair"
	}
	if m.capturing() {
		return "esc voltar · ctrl+c sair"
	}
	return strings.Join([]string{
		"1 painel",
		"2 setores",
		"3 notificações",
		"4 histórico",
		": comando",
		"? ajuda",
		"L sair da conta",
		"q fechar",
	}, " · ")
}
