//go:build nogui

package gui

import (
	"mdocx/internal/config"
	"mdocx/internal/errors"
	"mdocx/internal/workflow"
)

// Run is a stub for builds with the GUI disabled.
func Run(cfg *config.Config, cfgPath string, d *workflow.Driver) error {
	return errors.New("GUI is disabled in this build, use `mdocx tui` or `mdocx convert`")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
