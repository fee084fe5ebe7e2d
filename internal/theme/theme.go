package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps cards and detail content.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedPanelStyle highlights the focused card.
var SelectedPanelStyle = PanelStyle.
	BorderForeground(ColorBlue)

// TitleStyle is used for page titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle is used for secondary text and empty states.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DeniedStyle renders the access denied message.
var DeniedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed).
	Padding(1, 2)

// SuccessBannerStyle and ErrorBannerStyle render transient banners.
var (
	SuccessBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#1A202C")).
				Background(ColorGreen).
				Padding(0, 1)

	ErrorBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F8F9FA")).
				Background(ColorRed).
				Padding(0, 1)
)

// StatusStyle returns a color-coded style for a report status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case "pendente":
		return base.Foreground(ColorYellow)
	case "em_andamento":
		return base.Foreground(ColorBlue)
	case "concluido":
		return base.Foreground(ColorGreen)
	case "cancelado":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for a report priority.
func PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case "critica":
		return base.Foreground(ColorRed)
	case "alta":
		return base.Foreground(ColorOrange)
	case "media":
		return base.Foreground(ColorYellow)
	case "baixa":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// ActiveStyle colors an active/inactive badge.
func ActiveStyle(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
	return lipgloss.NewStyle().Foreground(ColorGray)
}

// RoleStyle returns a color-coded style for a role tag.
func RoleStyle(role string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch role {
	case "admin":
		return base.Foreground(ColorMagenta)
	case "gerente":
		return base.Foreground(ColorBlue)
	case "tecnico":
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}
