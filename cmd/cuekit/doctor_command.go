package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cuekit/internal/preflight"
)

type doctorOutput struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	Checks       []preflight.Result `json:"checks"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, directories, cache and synthesizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			out := doctorOutput{ConfigPath: ctx.configPath, ConfigExists: ctx.configExists, Checks: results}

			if err := ctx.writeResult(cmd, out, func(w io.Writer) error {
				colorize := shouldColorize(w)
				for _, line := range renderSectionHeader("cuekit doctor", colorize) {
					fmt.Fprintln(w, line)
				}
				configKind, configDetail := statusOK, ctx.configPath
				if !ctx.configExists {
					configKind, configDetail = statusInfo, ctx.configPath+" (not found, defaults in use)"
				}
				fmt.Fprintln(w, renderStatusLine("Config", configKind, configDetail, colorize))
				if cfg.Synth.Command == "" {
					fmt.Fprintln(w, renderStatusLine("Synthesizer", statusInfo, "not configured (speak disabled)", colorize))
				}
				if !cfg.Cache.Enabled {
					fmt.Fprintln(w, renderStatusLine("Track cache", statusInfo, "disabled", colorize))
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(w, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
				return nil
			}); err != nil {
				return err
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}
}
