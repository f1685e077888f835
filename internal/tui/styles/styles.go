// Package styles builds the lipgloss styles used by the terminal UI from the
// configured colour theme.
package styles

import (
	"mdocx/internal/config"
	"mdocx/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles.
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Help       lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	DropZone   lipgloss.Style
	DropActive lipgloss.Style
	Preview    lipgloss.Style

	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// New derives the styles from cfg's theme. A nil cfg uses the default theme.
func New(cfg *config.Config) Styles {
	if cfg == nil {
		cfg = config.New()
	}
	th := cfg.Theme
	primary := lipgloss.Color(th.Primary)
	border := lipgloss.Color(th.Border)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Success)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		DropZone: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2),
		DropActive: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(th.Info)).
			Padding(0, 2),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border),

		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(th.Info)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(th.Warning)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(th.Error)).Bold(true),
	}
}

// Default is the style set for the default theme.
var Default = New(nil)

// ForSeverity picks the status line style. Warnings share the error colour
// family but are not bold.
func (s Styles) ForSeverity(sev types.Severity) lipgloss.Style {
	switch sev {
	case types.SeveritySuccess:
		return s.Success
	case types.SeverityWarning:
		return s.Warning
	case types.SeverityError:
		return s.Error
	default:
		return s.Info
	}
}
