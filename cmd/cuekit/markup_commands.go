package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cuekit/internal/logging"
	"cuekit/internal/markup"
	"cuekit/internal/services"
)

type validateOutput struct {
	Valid     bool   `json:"valid"`
	Source    string `json:"source"`
	Markup    string `json:"markup,omitempty"`
	RootAdded bool   `json:"root_added"`
	Kind      string `json:"kind,omitempty"`
	Element   string `json:"element,omitempty"`
	Message   string `json:"message,omitempty"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var printMarkup bool

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate SSML markup",
		Long:  "Validate SSML markup from FILE or stdin. Fragments are wrapped in a <speak> root before checking.",
		Args:  cobra.MaximumNArgs(1),
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
			prepared, err := svc.Prepare(services.WithSource(cmd.Context(), source), input)
			result := validateOutput{Source: source}
			var verr *markup.ValidationError
			switch {
			case err == nil:
				result.Valid = true
				result.Markup = prepared.Markup
				result.RootAdded = prepared.RootAdded
			case errors.As(err, &verr):
				result.Kind = verr.Kind.String()
				result.Element = verr.Element
				result.Message = verr.Message
			default:
				return err
			}

			if writeErr := ctx.writeResult(cmd, result, func(w io.Writer) error {
				if !result.Valid {
					return nil
				}
				if printMarkup {
					fmt.Fprintln(w, result.Markup)
					return nil
				}
				if result.RootAdded {
					fmt.Fprintf(w, "%s: valid (speak root added)\n", source)
				} else {
					fmt.Fprintf(w, "%s: valid\n", source)
				}
				return nil
			}); writeErr != nil {
				return writeErr
			}
			if !result.Valid {
				return fmt.Errorf("%s: invalid markup (%s): %s", source, result.Kind, result.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printMarkup, "print", false, "Print the validated markup instead of a summary")
	return cmd
}

type textOutput struct {
	Source   string `json:"source"`
	Text     string `json:"text"`
	Strategy string `json:"strategy"`
}

func newTextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "text [FILE]",
		Short: "Extract plain text from SSML or a caption file",
		Long: "Extract displayable text from FILE or stdin. Well-formed markup is walked as XML, " +
			"malformed markup falls back to tag stripping, and SRT/WebVTT content is reduced to its cue text.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			input, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			svc, logger, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			text, strategy := svc.PlainText(input)
			logger.Debug("plain text extracted",
				logging.String(logging.FieldSource, source),
				logging.String(logging.FieldStrategy, strategy),
			)
			return ctx.writeResult(cmd, textOutput{Source: source, Text: text, Strategy: strategy}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, text)
				return err
			})
		},
	}
}
