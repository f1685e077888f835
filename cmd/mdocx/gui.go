package main

import (
	"mdocx/internal/gui"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the gui command
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the desktop window",
		Long:  `Launch the desktop window. Files can be dropped onto it or chosen with the file dialog.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDriver(cfg, cfg.Templates.Default)
			return gui.Run(cfg, configPath(), d)
		},
	}
}
