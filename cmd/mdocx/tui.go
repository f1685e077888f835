package main

import (
	"mdocx/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command
func NewTUICmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal interface",
		Long: `Launch the terminal interface. Choose a file with the picker or paste its
path into the terminal, pick a template, and press c to convert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("template") {
				template = cfg.Templates.Default
			}
			p := tea.NewProgram(tui.New(newState(cfg, template), cfg), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template selected at startup")
	return cmd
}
