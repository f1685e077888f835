package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"mdocx/internal/errors"
	"mdocx/internal/intake"
	"mdocx/internal/log"
	"mdocx/internal/workflow"

	"github.com/spf13/cobra"
)

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert Markdown files to DOCX",
		Long: `Convert one or more Markdown files. Files are converted one after another
and each document is saved to the output directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("template") {
				template = cfg.Templates.Default
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d := newDriver(cfg, template)
			failed := 0
			for _, path := range args {
				if err := convertOne(ctx, cmd, d, path); err != nil {
					failed++
					if ctx.Err() != nil {
						return ctx.Err()
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template to apply (default from config)")
	return cmd
}

func convertOne(ctx context.Context, cmd *cobra.Command, d *workflow.Driver, path string) error {
	cand, err := intake.FromPath(path)
	if err != nil {
		printError(cmd.ErrOrStderr(), fmt.Sprintf("%s: %s", path, errors.UserMessage(err)))
		return err
	}

	s, err := d.ConvertFile(ctx, cand)
	if err != nil {
		log.LogWithError(err).Debug("conversion failed")
		text := s.Status.Current().Text
		if text == "" {
			text = errors.UserMessage(err)
		}
		printError(cmd.ErrOrStderr(), fmt.Sprintf("%s: %s", path, text))
		return err
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s -> %s", path, s.LastPath()))
	return nil
}
