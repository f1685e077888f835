package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"mdocx/internal/errors"
	"mdocx/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "watch [DIRECTORY]",
		Short: "Convert Markdown files dropped into a folder",
		Long: `Watch an inbox folder and convert every Markdown file written to it.
The folder defaults to inbox.directory from the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Inbox.Directory = args[0]
			}
			if !cmd.Flags().Changed("template") {
				template = cfg.Templates.Default
			}

			d := newDriver(cfg, template)
			inbox, err := watch.NewInbox(cfg, d)
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			inbox.SetCallback(func(r watch.Result) {
				if r.Err != nil {
					printError(errOut, fmt.Sprintf("%s: %s", r.Source, errors.UserMessage(r.Err)))
					return
				}
				printSuccess(out, fmt.Sprintf("%s -> %s", r.Source, r.Output))
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			printInfo(out, fmt.Sprintf("Watching %s for %s. Press Ctrl+C to stop.", cfg.Inbox.Directory, cfg.Inbox.Pattern))
			if err := inbox.Run(ctx); err != nil {
				return err
			}
			st := inbox.Status()
			printInfo(out, fmt.Sprintf("Stopped: %d converted, %d failed", st.Converted, st.Failed))
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template to apply (default from config)")
	return cmd
}
