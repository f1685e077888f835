//go:build !nogui

package gui

import (
	"io"

	"mdocx/internal/errors"
	"mdocx/internal/intake"
	"mdocx/internal/workflow"
	"mdocx/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

// noTemplateLabel is the select entry meaning "convert without a template".
const noTemplateLabel = "(no template)"

type convertPane struct {
	app *App

	fileLabel      *widget.Label
	sizeLabel      *widget.Label
	openButton     *widget.Button
	clearButton    *widget.Button
	templateSelect *widget.Select
	preview        *widget.Entry
	convertButton  *widget.Button
	progress       *widget.ProgressBarInfinite
	statusLabel    *widget.Label

	templates []string
}

func newConvertPane(a *App) *convertPane {
	p := &convertPane{app: a}

	p.fileLabel = widget.NewLabelWithStyle("Drop a Markdown file onto the window or choose one",
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	p.sizeLabel = widget.NewLabel(".md, .markdown up to 10 MiB")
	p.openButton = widget.NewButton("Choose file...", p.openDialog)
	p.clearButton = widget.NewButton("Remove", func() {
		a.driver.Dispatch(workflow.FileClearedMsg{})
	})

	p.templateSelect = widget.NewSelect([]string{noTemplateLabel}, func(v string) {
		if v == noTemplateLabel {
			v = types.NoTemplate
		}
		a.driver.Dispatch(workflow.TemplateSelectedMsg{Name: v})
	})

	p.preview = widget.NewMultiLineEntry()
	p.preview.Wrapping = fyne.TextWrapWord
	p.preview.SetPlaceHolder("Preview")
	p.preview.Disable()

	p.convertButton = widget.NewButton("Convert to DOCX", func() {
		a.driver.Dispatch(workflow.SubmitMsg{})
	})
	p.convertButton.Importance = widget.HighImportance

	p.progress = widget.NewProgressBarInfinite()
	p.progress.Hide()
	p.progress.Stop()

	p.statusLabel = widget.NewLabel("")
	p.statusLabel.Wrapping = fyne.TextWrapWord

	return p
}

func (p *convertPane) content() fyne.CanvasObject {
	fileCard := widget.NewCard("File", "", container.NewBorder(nil, nil, nil,
		container.NewHBox(p.openButton, p.clearButton),
		container.NewVBox(p.fileLabel, p.sizeLabel)))

	top := container.NewVBox(
		fileCard,
		container.NewBorder(nil, nil, widget.NewLabel("Template:"), nil, p.templateSelect),
	)
	bottom := container.NewVBox(p.convertButton, p.progress, p.statusLabel)

	return container.NewBorder(top, bottom, nil, nil, container.NewScroll(p.preview))
}

func (p *convertPane) openDialog() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			p.app.ShowError("Open failed", err)
			return
		}
		if rc == nil {
			// Cancelled: the selection is empty.
			p.app.driver.Dispatch(workflow.FileChosenMsg{})
			return
		}
		defer rc.Close()
		p.app.driver.Dispatch(chooseReader(rc))
	}, p.app.mainWindow)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".md", ".markdown", ".txt"}))
	d.Show()
}

func (p *convertPane) render(s workflow.State) {
	if f := s.Intake.File(); f != nil {
		p.fileLabel.SetText(f.Name)
		p.sizeLabel.SetText(humanize.IBytes(uint64(f.Size)))
		p.clearButton.Enable()
	} else {
		p.fileLabel.SetText("Drop a Markdown file onto the window or choose one")
		p.sizeLabel.SetText(".md, .markdown up to " + humanize.IBytes(uint64(s.Intake.MaxSize())))
		p.clearButton.Disable()
	}

	if preview := s.Intake.Preview(); preview != p.preview.Text {
		p.preview.SetText(preview)
	}

	p.renderTemplates(s)

	if s.Busy() {
		p.convertButton.Disable()
		p.convertButton.SetText("Converting...")
		p.progress.Show()
		p.progress.Start()
	} else {
		p.convertButton.Enable()
		p.convertButton.SetText("Convert to DOCX")
		p.progress.Stop()
		p.progress.Hide()
	}

	msg := s.Status.Current()
	p.statusLabel.SetText(msg.Text)
	p.statusLabel.Importance = importanceFor(msg.Severity)
	p.statusLabel.Refresh()
}

func (p *convertPane) renderTemplates(s workflow.State) {
	names := s.Templates.Names()
	if !equalStrings(names, p.templates) {
		p.templates = names
		p.templateSelect.Options = append([]string{noTemplateLabel}, names...)
		p.templateSelect.Refresh()
	}
	if len(names) == 0 {
		p.templateSelect.PlaceHolder = "no templates available"
	}

	want := s.Templates.Selected()
	if want == types.NoTemplate {
		want = noTemplateLabel
	}
	if p.templateSelect.Selected != want {
		p.templateSelect.Selected = want
		p.templateSelect.Refresh()
	}
}

func importanceFor(sev types.Severity) widget.Importance {
	switch sev {
	case types.SeveritySuccess:
		return widget.SuccessImportance
	case types.SeverityWarning:
		return widget.WarningImportance
	case types.SeverityError:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// chooseURI turns a dropped or picked URI into an ingest message. Local
// files are sniffed from disk; anything else is read into memory.
func chooseURI(u fyne.URI) workflow.FileChosenMsg {
	if u.Scheme() == "file" {
		cand, err := intake.FromPath(u.Path())
		if err != nil {
			return workflow.FileChosenMsg{Err: err}
		}
		return workflow.FileChosenMsg{Candidate: cand}
	}
	rc, err := storage.Reader(u)
	if err != nil {
		return workflow.FileChosenMsg{Err: errors.NewFileError(intake.MsgReadFailed, u.String(), errors.FileReadFailed, err)}
	}
	defer rc.Close()
	return chooseReader(rc)
}

func chooseReader(rc fyne.URIReadCloser) workflow.FileChosenMsg {
	u := rc.URI()
	if u.Scheme() == "file" {
		return chooseURI(u)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return workflow.FileChosenMsg{Err: errors.NewFileError(intake.MsgReadFailed, u.String(), errors.FileReadFailed, err)}
	}
	return workflow.FileChosenMsg{Candidate: intake.NewCandidate(u.Name(), u.MimeType(), data)}
}
