//go:build !nogui

package gui

import (
	"fmt"

	"mdocx/internal/config"
	"mdocx/internal/download"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// createSettingsTab edits the persisted configuration. Changes take effect
// the next time mdocx starts.
func (a *App) createSettingsTab() fyne.CanvasObject {
	serviceEntry := widget.NewEntry()
	serviceEntry.SetText(a.cfg.Service.URL)
	serviceEntry.OnChanged = func(text string) {
		a.cfg.Service.URL = text
	}

	outputEntry := widget.NewEntry()
	outputEntry.SetText(a.cfg.Output.Directory)
	outputEntry.OnChanged = func(text string) {
		a.cfg.Output.Directory = text
	}
	browseButton := widget.NewButton("Browse...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			outputEntry.SetText(uri.Path())
		}, a.mainWindow)
	})

	collisionSelect := widget.NewSelect([]string{download.CollisionRename, download.CollisionOverwrite}, func(value string) {
		a.cfg.Output.Collision = value
	})
	collisionSelect.SetSelected(a.cfg.Output.Collision)

	defaultTemplateEntry := widget.NewEntry()
	defaultTemplateEntry.SetPlaceHolder("none")
	defaultTemplateEntry.SetText(a.cfg.Templates.Default)
	defaultTemplateEntry.OnChanged = func(text string) {
		a.cfg.Templates.Default = text
	}

	themeSelect := widget.NewSelect(config.ListThemes(), func(value string) {
		a.cfg.ApplyTheme(value)
	})
	themeSelect.SetSelected(a.cfg.Theme.Name)

	form := widget.NewForm(
		widget.NewFormItem("Service URL", serviceEntry),
		widget.NewFormItem("Save to", container.NewBorder(nil, nil, nil, browseButton, outputEntry)),
		widget.NewFormItem("On name clash", collisionSelect),
		widget.NewFormItem("Default template", defaultTemplateEntry),
		widget.NewFormItem("Terminal theme", themeSelect),
	)

	saveButton := widget.NewButton("Save Settings", func() {
		if err := a.saveConfig(); err != nil {
			a.ShowError("Settings", err)
			return
		}
		a.ShowInfo("Settings saved. Restart mdocx to apply them.")
	})
	saveButton.Importance = widget.HighImportance

	return container.NewVBox(
		widget.NewCard("Settings", "", form),
		saveButton,
	)
}

func (a *App) saveConfig() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.cfgPath == "" {
		return fmt.Errorf("no configuration file path")
	}
	return config.SaveConfig(a.cfg, a.cfgPath)
}
