package components

import (
	"mdocx/internal/tui/styles"
	"mdocx/pkg/types"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusBar shows the current status message, with a spinner while a
// conversion is in flight.
type StatusBar struct {
	msg     types.StatusMessage
	styles  styles.Styles
	spinner spinner.Model
	loading bool
}

func NewStatusBar(st styles.Styles) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.Info

	return &StatusBar{
		styles:  st,
		spinner: s,
	}
}

// SetLoading turns the spinner on or off. Turning it on returns the first
// tick.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	start := loading && !s.loading
	s.loading = loading
	if start {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool { return s.loading }

func (s *StatusBar) SetMessage(msg types.StatusMessage) {
	s.msg = msg
}

// Update advances the spinner. Ticks stop once loading ends.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || !s.loading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.msg.Empty() && !s.loading {
		return ""
	}

	text := s.styles.ForSeverity(s.msg.Severity).Render(s.msg.Text)
	if s.loading {
		return s.spinner.View() + " " + text
	}
	return text
}
