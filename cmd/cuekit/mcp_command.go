package main

import (
	"github.com/spf13/cobra"

	"cuekit/internal/logging"
	"cuekit/internal/mcpserver"
	"cuekit/internal/synth"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve cuekit tools over the Model Context Protocol on stdio",
		Long: "Run an MCP server on stdin/stdout exposing validate_markup, plain_text, parse_captions and " +
			"word_timings. The speak tool is added when synth.command is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			svc, logger, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			cfg := svc.Config()
			var opts []mcpserver.Option
			if cfg.Synth.Command != "" {
				synthesizer, err := synth.NewCommand(cfg.Synth)
				if err != nil {
					return err
				}
				opts = append(opts, mcpserver.WithSynthesizer(synthesizer))
			} else {
				logger.Info("speak tool disabled", logging.String(logging.FieldErrorHint, "set synth.command to enable it"))
			}
			return mcpserver.New(cfg, svc, logger, opts...).Run(cmd.Context())
		},
	}
}
