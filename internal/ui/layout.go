package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maintenance-admin/internal/theme"
)

// Layout manages the terminal layout dimensions: header, banner line,
// page content and status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	BannerHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight, BannerHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		BannerHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the page, accounting
// for the header, banner line and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.BannerHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top header bar with a title on the left and
// the signed-in user on the right.
func (l Layout) RenderHeader(title string, user string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	userRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(user)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(userRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		userRendered,
	)
}

// RenderBanner reserves the banner line so pages don't shift when a
// banner appears.
func (l Layout) RenderBanner(banner string) string {
	return lipgloss.NewStyle().Width(l.Width).MaxHeight(l.BannerHeight).Render(banner)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, banner, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	banner string,
	content string,
	statusBar string,
) string {
	content = lipgloss.NewStyle().MaxHeight(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		l.RenderBanner(banner),
		content,
		statusBar,
	)
}
