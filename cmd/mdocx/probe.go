package main

import (
	"fmt"

	"mdocx/internal/client"
	"mdocx/internal/probe"
	"mdocx/internal/status"
	"mdocx/internal/templates"
	"mdocx/pkg/types"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the conversion service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := client.New(cfg.Service.URL, client.WithProbeTimeout(cfg.ProbeTimeout()))
			msg, _ := probe.CheckHealth(svc)().(probe.HealthMsg)

			var r status.Reporter
			probe.ApplyHealth(&r, msg)
			if r.Pending() {
				printStatus(cmd.ErrOrStderr(), r.Current())
				return fmt.Errorf("service at %s is not ready", svc.BaseURL())
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s is up (status %q, pandoc available)", svc.BaseURL(), msg.Health.Status))
			return nil
		},
	}
}

// NewTemplatesCmd creates the templates command
func NewTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the templates offered by the conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := client.New(cfg.Service.URL, client.WithProbeTimeout(cfg.ProbeTimeout()))
			msg, _ := probe.FetchTemplates(svc)().(probe.TemplatesMsg)

			var (
				r   status.Reporter
				sel templates.Selector
			)
			sel.Select(cfg.Templates.Default)
			probe.ApplyTemplates(&r, &sel, msg)
			if msg.Err != nil {
				printStatus(cmd.ErrOrStderr(), r.Current())
				return msg.Err
			}

			out := cmd.OutOrStdout()
			if sel.Len() == 0 {
				printInfo(out, "(no templates available)")
				return nil
			}
			for _, t := range sel.Items() {
				marker := "  "
				if t.Name == sel.Selected() && sel.Selected() != types.NoTemplate {
					marker = "* "
				}
				fmt.Fprintln(out, marker+t.Name)
			}
			return nil
		},
	}
}
