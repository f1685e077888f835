package components

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// FilePicker wraps the bubbles file picker. Every file can be picked so
// that validation, not the picker, decides what is accepted.
type FilePicker struct {
	picker filepicker.Model
}

func NewFilePicker(dir string) *FilePicker {
	fp := filepicker.New()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}
	fp.CurrentDirectory = dir
	fp.AutoHeight = false
	fp.Height = 10
	return &FilePicker{picker: fp}
}

// Open reads the current directory.
func (f *FilePicker) Open() tea.Cmd {
	return f.picker.Init()
}

func (f *FilePicker) SetHeight(h int) {
	if h < 3 {
		h = 3
	}
	f.picker.Height = h
}

func (f *FilePicker) Dir() string { return f.picker.CurrentDirectory }

// Update forwards msg and reports the path chosen by it, if any.
func (f *FilePicker) Update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	f.picker, cmd = f.picker.Update(msg)
	if ok, path := f.picker.DidSelectFile(msg); ok {
		return path, cmd
	}
	return "", cmd
}

func (f *FilePicker) View() string {
	return f.picker.View()
}
