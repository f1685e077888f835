// Package tui is the terminal front-end. The workflow state is embedded in
// the bubbletea model and every message the model does not handle itself is
// forwarded to the workflow reducer.
package tui

import (
	"net/url"
	"strings"

	"mdocx/internal/config"
	"mdocx/internal/intake"
	"mdocx/internal/tui/common"
	"mdocx/internal/tui/components"
	"mdocx/internal/tui/styles"
	"mdocx/internal/tui/views"
	"mdocx/internal/workflow"
	"mdocx/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	state workflow.State

	mode     common.Mode
	showHelp bool
	width    int
	height   int

	keys      KeyMap
	help      help.Model
	styles    styles.Styles
	picker    *components.FilePicker
	preview   *components.Preview
	statusBar *components.StatusBar
}

// New builds the model around an initial workflow state. cfg supplies the
// theme and may be nil.
func New(state workflow.State, cfg *config.Config) *Model {
	st := styles.New(cfg)
	dir := ""
	if cfg != nil && cfg.Inbox.Directory != "" {
		dir = cfg.Inbox.Directory
	}
	return &Model{
		state:     state,
		mode:      common.Normal,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		styles:    st,
		picker:    components.NewFilePicker(dir),
		preview:   components.NewPreview(st),
		statusBar: components.NewStatusBar(st),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.state.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		body := msg.Height - 12
		m.preview.SetSize(msg.Width-6, body)
		m.picker.SetHeight(body)
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m, m.dispatch(pasted(string(msg.Runes)))
		}
		if m.mode == common.Picking {
			return m, m.updatePicker(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.mode == common.Picking {
		cmds = append(cmds, m.updatePicker(msg))
	}
	cmds = append(cmds, m.statusBar.Update(msg), m.dispatch(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Open):
		m.mode = common.Picking
		return m.picker.Open()
	case key.Matches(msg, m.keys.Convert):
		return m.dispatch(workflow.SubmitMsg{})
	case key.Matches(msg, m.keys.Clear):
		return m.dispatch(workflow.FileClearedMsg{})
	case key.Matches(msg, m.keys.NextTemplate):
		return m.cycleTemplate(1)
	case key.Matches(msg, m.keys.PrevTemplate):
		return m.cycleTemplate(-1)
	default:
		return m.preview.Update(msg)
	}
	return nil
}

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Back):
			m.mode = common.Normal
			return nil
		case key.Matches(km, m.keys.Quit) && km.String() == "ctrl+c":
			return tea.Quit
		}
	}
	path, cmd := m.picker.Update(msg)
	if path == "" {
		return cmd
	}
	m.mode = common.Normal
	return tea.Batch(cmd, m.dispatch(choose(path)))
}

func (m *Model) cycleTemplate(delta int) tea.Cmd {
	sel := m.state.Templates
	sel.Cycle(delta)
	return m.dispatch(workflow.TemplateSelectedMsg{Name: sel.Selected()})
}

// dispatch runs msg through the workflow reducer and syncs the components
// with the new state.
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	next, cmd := m.state.Update(msg)
	m.state = next

	m.preview.SetContent(next.Intake.Preview())
	m.statusBar.SetMessage(next.Status.Current())
	return tea.Batch(cmd, m.statusBar.SetLoading(next.Busy()))
}

// choose turns a path from the picker or a paste into an ingest message.
func choose(path string) workflow.FileChosenMsg {
	cand, err := intake.FromPath(path)
	if err != nil {
		return workflow.FileChosenMsg{Err: err}
	}
	return workflow.FileChosenMsg{Candidate: cand}
}

// pasted handles a path dropped onto the terminal. Most terminals paste a
// dragged file as its path, sometimes quoted, escaped or as a file:// URL.
func pasted(text string) workflow.FileChosenMsg {
	path := strings.TrimSpace(text)
	if i := strings.IndexAny(path, "\r\n"); i >= 0 {
		path = strings.TrimSpace(path[:i])
	}
	path = strings.Trim(path, `"'`)
	if strings.HasPrefix(path, "file://") {
		if u, err := url.Parse(path); err == nil {
			path = u.Path
		} else {
			path = strings.TrimPrefix(path, "file://")
		}
	}
	path = strings.ReplaceAll(path, `\ `, " ")
	return choose(path)
}

// View implements tea.Model
func (m *Model) View() string {
	var body string
	if m.mode == common.Picking {
		body = m.picker.View()
	} else {
		body = m.preview.View()
	}
	return views.RenderMainView(m, m.styles, body, m.statusBar.View(), m.help.View(m.keys))
}

// State returns the workflow state.
func (m *Model) State() workflow.State { return m.state }

func (m *Model) Mode() common.Mode { return m.mode }

func (m *Model) File() *types.SelectedFile { return m.state.Intake.File() }

func (m *Model) Dragging() bool { return m.state.Intake.Dragging() }

func (m *Model) Templates() []string { return m.state.Templates.Names() }

func (m *Model) SelectedTemplate() string { return m.state.Templates.Selected() }

func (m *Model) Busy() bool { return m.state.Busy() }

func (m *Model) ShowHelp() bool { return m.showHelp }
