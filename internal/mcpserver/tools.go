package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"cuekit/internal/captions"
	"cuekit/internal/logging"
	"cuekit/internal/markup"
	"cuekit/internal/pipeline"
	"cuekit/internal/services"
)

type ValidateMarkupArgs struct {
	Markup string `json:"markup" jsonschema:"SSML document or fragment to validate"`
}

type PlainTextArgs struct {
	Input string `json:"input" jsonschema:"SSML, markup fragment, plain text, or caption file content"`
}

type ParseCaptionsArgs struct {
	Content string `json:"content" jsonschema:"caption file content"`
	Format  string `json:"format,omitempty" jsonschema:"srt or vtt; detected from content when omitted"`
}

type WordTimingsArgs struct {
	Content string `json:"content" jsonschema:"caption file content"`
	Format  string `json:"format,omitempty" jsonschema:"srt or vtt; detected from content when omitted"`
}

type SpeakArgs struct {
	Markup    string `json:"markup" jsonschema:"SSML document or fragment to speak"`
	AudioPath string `json:"audio_path,omitempty" jsonschema:"where the synthesizer should write audio"`
	Format    string `json:"format,omitempty" jsonschema:"caption format the synthesizer emits"`
}

// ValidationResult is the validate_markup payload.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Markup    string `json:"markup,omitempty"`
	RootAdded bool   `json:"root_added,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Element   string `json:"element,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CueTimings pairs a cue with its word timings.
type CueTimings struct {
	Cue   captions.Cue          `json:"cue"`
	Words []captions.WordTiming `json:"words"`
}

func (s *Server) handleValidateMarkup(ctx context.Context, req *sdk.CallToolRequest, args ValidateMarkupArgs) (*sdk.CallToolResult, any, error) {
	prepared, err := s.svc.Prepare(ctx, args.Markup)
	if err != nil {
		var verr *markup.ValidationError
		if !errors.As(err, &verr) {
			return s.toolError("validate_markup", err), nil, nil
		}
		return jsonResult(ValidationResult{
			Kind:    verr.Kind.String(),
			Element: verr.Element,
			Message: verr.Message,
		})
	}
	return jsonResult(ValidationResult{Valid: true, Markup: prepared.Markup, RootAdded: prepared.RootAdded})
}

func (s *Server) handlePlainText(ctx context.Context, req *sdk.CallToolRequest, args PlainTextArgs) (*sdk.CallToolResult, any, error) {
	text, _ := s.svc.PlainText(args.Input)
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}, nil, nil
}

func (s *Server) handleParseCaptions(ctx context.Context, req *sdk.CallToolRequest, args ParseCaptionsArgs) (*sdk.CallToolResult, any, error) {
	track, err := s.svc.Captions(ctx, args.Content, captions.Format(args.Format))
	if err != nil {
		return s.toolError("parse_captions", err), nil, nil
	}
	return jsonResult(track)
}

func (s *Server) handleWordTimings(ctx context.Context, req *sdk.CallToolRequest, args WordTimingsArgs) (*sdk.CallToolResult, any, error) {
	track, err := s.svc.Captions(ctx, args.Content, captions.Format(args.Format))
	if err != nil {
		return s.toolError("word_timings", err), nil, nil
	}
	out := make([]CueTimings, 0, len(track.Cues))
	for _, cue := range track.Cues {
		out = append(out, CueTimings{Cue: cue, Words: s.svc.WordTimings(cue)})
	}
	return jsonResult(out)
}

func (s *Server) handleSpeak(ctx context.Context, req *sdk.CallToolRequest, args SpeakArgs) (*sdk.CallToolResult, any, error) {
	spoken, err := s.svc.Speak(ctx, s.synthesizer, pipeline.SpeakRequest{
		Markup:    args.Markup,
		AudioPath: args.AudioPath,
		Format:    captions.Format(args.Format),
	})
	if err != nil {
		return s.toolError("speak", err), nil, nil
	}
	return jsonResult(spoken)
}

func (s *Server) toolError(tool string, err error) *sdk.CallToolResult {
	kind := services.FailureKind(err)
	s.logger.Warn("tool failed",
		logging.String("tool", tool),
		logging.String("failure_kind", kind),
		logging.Error(err),
	)
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: fmt.Sprintf("%s: %v", kind, err)}},
	}
}

func jsonResult(v any) (*sdk.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil, nil
}
