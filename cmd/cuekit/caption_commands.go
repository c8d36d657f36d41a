package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cuekit/internal/batch"
	"cuekit/internal/captions"
	"cuekit/internal/pipeline"
	"cuekit/internal/services"
)

type captionsOutput struct {
	Source     string `json:"source"`
	AdsRemoved int    `json:"ads_removed"`
	pipeline.Track
}

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var renderFlag string
	var stripAds bool

	cmd := &cobra.Command{
		Use:   "captions [FILE]",
		Short: "Parse an SRT or WebVTT caption track",
		Long: "Parse the caption track in FILE or stdin. Malformed cues are skipped and reported. " +
			"With --render the cleaned track is printed in the requested format instead of a table.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			content, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			format, err := resolveInputFormat(formatFlag, source, content)
			if err != nil {
				return err
			}
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			track, err := svc.Captions(services.WithSource(cmd.Context(), source), content, format)
			if err != nil {
				return err
			}
			out := captionsOutput{Source: source, Track: track}
			if stripAds {
				out.Cues, out.AdsRemoved = captions.StripAdvertisements(track.Cues)
			}

			if strings.TrimSpace(renderFlag) != "" {
				renderFormat, err := captions.ParseFormat(renderFlag)
				if err != nil {
					return err
				}
				rendered, err := captions.Render(out.Cues, renderFormat)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), rendered)
				return err
			}

			return ctx.writeResult(cmd, out, func(w io.Writer) error {
				fmt.Fprintln(w, renderCueTable(out.Cues))
				fmt.Fprintf(w, "%d cues (%s)", len(out.Cues), out.Format)
				if len(out.Skipped) > 0 {
					fmt.Fprintf(w, ", %d skipped", len(out.Skipped))
				}
				if out.AdsRemoved > 0 {
					fmt.Fprintf(w, ", %d advertisements removed", out.AdsRemoved)
				}
				if out.Cached {
					fmt.Fprint(w, ", from cache")
				}
				fmt.Fprintln(w)
				for _, skip := range out.Skipped {
					fmt.Fprintf(w, "  skipped line %d: %s\n", skip.Line, skip.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Input format (srt or vtt); detected when omitted")
	cmd.Flags().StringVar(&renderFlag, "render", "", "Print the cleaned track in this format (srt or vtt)")
	cmd.Flags().BoolVar(&stripAds, "strip-ads", false, "Drop subtitle-site advertisement cues")
	return cmd
}

type wordsOutput struct {
	Source string          `json:"source"`
	Format captions.Format `json:"format"`
	Cues   []cueWords      `json:"cues"`
}

type cueWords struct {
	Cue   captions.Cue          `json:"cue"`
	Words []captions.WordTiming `json:"words"`
}

func newWordsCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "words [FILE]",
		Short: "Approximate per-word timings for a caption track",
		Long:  "Split each cue of the track in FILE or stdin evenly across its words.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			content, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			format, err := resolveInputFormat(formatFlag, source, content)
			if err != nil {
				return err
			}
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			track, err := svc.Captions(services.WithSource(cmd.Context(), source), content, format)
			if err != nil {
				return err
			}
			out := wordsOutput{Source: source, Format: track.Format, Cues: make([]cueWords, 0, len(track.Cues))}
			for _, cue := range track.Cues {
				out.Cues = append(out.Cues, cueWords{Cue: cue, Words: svc.WordTimings(cue)})
			}
			return ctx.writeResult(cmd, out, func(w io.Writer) error {
				var rows [][]string
				for _, cw := range out.Cues {
					for _, word := range cw.Words {
						rows = append(rows, []string{
							cw.Cue.ID,
							captions.FormatTimestamp(word.StartMs, '.'),
							captions.FormatTimestamp(word.EndMs, '.'),
							word.Word,
						})
					}
				}
				_, err := fmt.Fprintln(w, renderTable(
					[]string{"Cue", "Start", "End", "Word"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
				))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Input format (srt or vtt); detected when omitted")
	return cmd
}

type batchOutput struct {
	Files  []batch.FileResult `json:"files"`
	OK     int                `json:"ok"`
	Failed int                `json:"failed"`
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var renderFlag string
	var stripAds bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Clean many caption files concurrently",
		Long: "Parse each caption file, optionally drop advertisement cues, and write the cleaned track " +
			"to --out-dir. Without --out-dir the files are only checked.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			svc, logger, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			cfg := svc.Config()
			opts := batch.Options{
				OutputDir:           outDir,
				Format:              captions.Format(renderFlag),
				StripAdvertisements: stripAds || cfg.Batch.StripAdvertisements,
				MaxConcurrent:       cfg.Batch.MaxConcurrent,
			}
			if jobs > 0 {
				opts.MaxConcurrent = jobs
			}
			results, err := batch.CleanFiles(cmd.Context(), svc, logger, args, opts)
			if err != nil {
				return err
			}
			out := batchOutput{Files: results}
			out.OK, out.Failed = batch.Summary(results)

			if err := ctx.writeResult(cmd, out, func(w io.Writer) error {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					status := "ok"
					if r.Failed() {
						status = r.Error
					} else if r.OutputPath != "" {
						status = "wrote " + r.OutputPath
					}
					rows = append(rows, []string{
						r.Path,
						string(r.Format),
						strconv.Itoa(r.Cues),
						strconv.Itoa(r.Skipped),
						strconv.Itoa(r.AdsRemoved),
						status,
					})
				}
				fmt.Fprintln(w, renderTable(
					[]string{"File", "Format", "Cues", "Skipped", "Ads", "Status"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				fmt.Fprintf(w, "%d ok, %d failed\n", out.OK, out.Failed)
				return nil
			}); err != nil {
				return err
			}
			if out.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", out.Failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "Directory for cleaned tracks")
	cmd.Flags().StringVar(&renderFlag, "render", "", "Write outputs in this format (srt or vtt); defaults to each input's format")
	cmd.Flags().BoolVar(&stripAds, "strip-ads", false, "Drop subtitle-site advertisement cues (also batch.strip_advertisements)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files processed at once (default batch.max_concurrent)")
	return cmd
}

// resolveInputFormat honours an explicit --format, then the file extension,
// then the content.
func resolveInputFormat(flag, source, content string) (captions.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return captions.ParseFormat(flag)
	}
	if source == "stdin" {
		return captions.DetectFormat(content), nil
	}
	return captions.FormatForPath(source, content), nil
}

func renderCueTable(cues []captions.Cue) string {
	rows := make([][]string, 0, len(cues))
	for _, cue := range cues {
		rows = append(rows, []string{
			cue.ID,
			captions.FormatTimestamp(cue.StartMs, '.'),
			captions.FormatTimestamp(cue.EndMs, '.'),
			cue.Text,
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}
