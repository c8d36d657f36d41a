package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cuekit/internal/captions"
	"cuekit/internal/pipeline"
	"cuekit/internal/services"
	"cuekit/internal/synth"
)

func newSpeakCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "speak [FILE]",
		Short: "Synthesize SSML with the configured speech command",
		Long: "Validate the markup in FILE or stdin, pipe it to synth.command, and parse the caption track " +
			"the command prints. Each cue is split into approximate word timings and the caption text is " +
			"compared with the markup's plain text.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			input, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			synthesizer, err := synth.NewCommand(svc.Config().Synth)
			if err != nil {
				return err
			}
			var format captions.Format
			if formatFlag != "" {
				if format, err = captions.ParseFormat(formatFlag); err != nil {
					return err
				}
			}
			spoken, err := svc.Speak(services.WithSource(cmd.Context(), source), synthesizer, pipeline.SpeakRequest{
				Markup:    input,
				AudioPath: audioPath,
				Format:    format,
			})
			if err != nil {
				return err
			}
			return ctx.writeResult(cmd, spoken, func(w io.Writer) error {
				fmt.Fprintf(w, "Text:      %s\n", spoken.Prepared.PlainText)
				if spoken.AudioPath != "" {
					fmt.Fprintf(w, "Audio:     %s\n", spoken.AudioPath)
				}
				fmt.Fprintf(w, "Agreement: %.2f (diverged: %s)\n", spoken.Agreement, yesNo(spoken.Diverged))
				fmt.Fprintln(w, renderCueTable(spoken.Track.Cues))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Audio output path substituted for {audio} in synth.args")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Caption format the command prints (default synth.caption_format)")
	return cmd
}
