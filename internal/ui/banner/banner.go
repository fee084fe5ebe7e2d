// Package banner shows one transient success or error line that clears
// itself after a fixed delay.
package banner

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maintenance-admin/internal/theme"
)

// Kind selects the banner color.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// ShowMsg asks the banner to display Text.
type ShowMsg struct {
	Kind Kind
	Text string
}

// dismissMsg clears the banner if it is still showing message seq.
type dismissMsg struct{ seq int }

// Success returns a command that shows a success banner.
func Success(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Kind: KindSuccess, Text: text} }
}

// Error returns a command that shows an error banner.
func Error(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Kind: KindError, Text: text} }
}

// Model holds the banner currently on screen, if any.
type Model struct {
	kind Kind
	text string
	seq  int
	ttl  time.Duration
}

// New creates a banner whose messages last ttl.
func New(ttl time.Duration) Model {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return Model{ttl: ttl}
}

// Update shows or dismisses the banner. A newer message restarts the
// timer; the dismissal of an older one is ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m.seq++
		m.kind = msg.Kind
		m.text = msg.Text
		seq := m.seq
		return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
			return dismissMsg{seq: seq}
		})

	case dismissMsg:
		if msg.seq == m.seq {
			m.text = ""
		}
	}
	return m, nil
}

// Visible reports whether a banner is showing.
func (m Model) Visible() bool { return m.text != "" }

// Text returns the banner text.
func (m Model) Text() string { return m.text }

// Kind returns the banner kind.
func (m Model) Kind() Kind { return m.kind }

// View renders the banner, or "" when hidden.
func (m Model) View() string {
	if m.text == "" {
		return ""
	}
	if m.kind == KindError {
		return theme.ErrorBannerStyle.Render("✗ " + m.text)
	}
	return theme.SuccessBannerStyle.Render("✓ " + m.text)
}
