//go:build !nogui

// Package gui is the desktop front-end built with fyne. The window is a view
// over a workflow.Driver: widgets dispatch messages and every state change is
// rendered back onto them.
package gui

import (
	"context"

	"mdocx/internal/config"
	"mdocx/internal/log"
	"mdocx/internal/workflow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	cfgPath    string
	driver     *workflow.Driver

	convert *convertPane
}

// NewApp wires a window onto d. cfgPath is where the settings tab saves.
func NewApp(fyneApp fyne.App, cfg *config.Config, cfgPath string, d *workflow.Driver) *App {
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		cfgPath: cfgPath,
		driver:  d,
	}
	a.mainWindow = fyneApp.NewWindow("mdocx")
	a.setupMainWindow()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, cfgPath string, d *workflow.Driver) error {
	a := NewApp(app.NewWithID("io.github.mdocx"), cfg, cfgPath, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.OnChange(a.render)
	d.Start()
	go func() {
		if _, err := d.Run(ctx, nil); err != nil && ctx.Err() == nil {
			log.LogError(err, "workflow loop stopped")
		}
	}()

	a.render(d.State())
	a.mainWindow.ShowAndRun()
	return nil
}

func (a *App) setupMainWindow() {
	a.convert = newConvertPane(a)

	tabs := container.NewAppTabs(
		container.NewTabItem("Convert", a.convert.content()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	a.mainWindow.SetContent(tabs)
	a.mainWindow.Resize(fyne.NewSize(800, 640))
	a.mainWindow.SetOnDropped(a.handleDrop)
}

// render copies the workflow state onto the widgets.
func (a *App) render(s workflow.State) {
	a.convert.render(s)
}

// handleDrop ingests the first file dropped onto the window.
func (a *App) handleDrop(_ fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	if len(uris) > 1 {
		log.Debugf("%d files dropped, using the first", len(uris))
	}
	a.driver.Dispatch(chooseURI(uris[0]))
}

// ShowError shows an error dialog
func (a *App) ShowError(title string, err error) {
	dialog.ShowError(err, a.mainWindow)
	log.LogWithFields(log.F("title", title)).WithError(err).Error("gui error")
}

// ShowInfo shows an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("mdocx", message, a.mainWindow)
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
