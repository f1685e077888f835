package components

import (
	"strings"

	"mdocx/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Preview is a scrollable view of the active file's text.
type Preview struct {
	viewport viewport.Model
	content  string
	styles   styles.Styles
}

func NewPreview(st styles.Styles) *Preview {
	vp := viewport.New(80, 12)
	vp.Style = st.Preview
	return &Preview{viewport: vp, styles: st}
}

func (p *Preview) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	p.viewport.Width = width
	p.viewport.Height = height
}

// SetContent replaces the text and scrolls back to the top when it changed.
func (p *Preview) SetContent(content string) {
	if content == p.content {
		return
	}
	p.content = content
	p.viewport.SetContent(strings.ReplaceAll(content, "\t", "    "))
	p.viewport.GotoTop()
}

func (p *Preview) Content() string { return p.content }

func (p *Preview) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *Preview) View() string {
	if p.content == "" {
		return p.styles.Muted.Render("(no preview)")
	}
	return p.viewport.View()
}
