package mcpserver

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"cuekit/internal/captions"
	"cuekit/internal/logging"
	"cuekit/internal/pipeline"
	"cuekit/internal/synth"
	"cuekit/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithCacheDisabled())
	svc := pipeline.New(cfg, logging.NewNop())
	return New(cfg, svc, logging.NewNop(), opts...)
}

func resultText(t *testing.T, result *sdk.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	text, ok := result.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestValidateMarkupTool(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, _, err := srv.handleValidateMarkup(ctx, nil, ValidateMarkupArgs{Markup: "Hello <break time=\"1s\"/> world"})
	if err != nil {
		t.Fatalf("handleValidateMarkup: %v", err)
	}
	var ok ValidationResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok.Valid || !ok.RootAdded || !strings.HasPrefix(ok.Markup, "<speak>") {
		t.Fatalf("unexpected validation result: %+v", ok)
	}

	result, _, err = srv.handleValidateMarkup(ctx, nil, ValidateMarkupArgs{Markup: "<speak><script>x</script></speak>"})
	if err != nil {
		t.Fatalf("handleValidateMarkup: %v", err)
	}
	var rejected ValidationResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &rejected); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rejected.Valid || rejected.Kind == "" || result.IsError {
		t.Fatalf("expected structured rejection, got %+v", rejected)
	}
}

func TestPlainTextTool(t *testing.T) {
	srv := newTestServer(t)
	result, _, err := srv.handlePlainText(context.Background(), nil, PlainTextArgs{Input: "<speak>Hello <emphasis>world</emphasis></speak>"})
	if err != nil {
		t.Fatalf("handlePlainText: %v", err)
	}
	if got := resultText(t, result); got != "Hello world" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestParseCaptionsAndWordTimingsTools(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	content := "WEBVTT\n\n00:00.000 --> 00:01.000\nHello world\n"

	result, _, err := srv.handleParseCaptions(ctx, nil, ParseCaptionsArgs{Content: content})
	if err != nil {
		t.Fatalf("handleParseCaptions: %v", err)
	}
	var track pipeline.Track
	if err := json.Unmarshal([]byte(resultText(t, result)), &track); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if track.Format != captions.FormatVTT || len(track.Cues) != 1 || track.Cues[0].Text != "Hello world" {
		t.Fatalf("unexpected track: %+v", track)
	}

	result, _, err = srv.handleWordTimings(ctx, nil, WordTimingsArgs{Content: content, Format: "vtt"})
	if err != nil {
		t.Fatalf("handleWordTimings: %v", err)
	}
	var timings []CueTimings
	if err := json.Unmarshal([]byte(resultText(t, result)), &timings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(timings) != 1 || len(timings[0].Words) != 2 || timings[0].Words[1].StartMs != 500 {
		t.Fatalf("unexpected timings: %+v", timings)
	}

	result, _, err = srv.handleParseCaptions(ctx, nil, ParseCaptionsArgs{Content: content, Format: "ass"})
	if err != nil {
		t.Fatalf("handleParseCaptions: %v", err)
	}
	if !result.IsError || !strings.HasPrefix(resultText(t, result), "validation:") {
		t.Fatalf("expected validation tool error, got %+v", result)
	}
}

func TestSpeakToolUsesSynthesizer(t *testing.T) {
	cues := []captions.Cue{{ID: "1", StartMs: 0, EndMs: 800, Text: "Good morning"}}
	cfg := testsupport.NewConfig(t, testsupport.WithCacheDisabled(), testsupport.WithStubSynthesizer(captions.FormatSRT, cues))
	synthesizer, err := synth.NewCommand(cfg.Synth)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	srv := New(cfg, pipeline.New(cfg, nil), nil, WithSynthesizer(synthesizer))

	result, _, err := srv.handleSpeak(context.Background(), nil, SpeakArgs{Markup: "<speak>Good morning</speak>"})
	if err != nil {
		t.Fatalf("handleSpeak: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	var spoken pipeline.Spoken
	if err := json.Unmarshal([]byte(resultText(t, result)), &spoken); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spoken.Diverged || len(spoken.Track.Cues) != 1 || spoken.Agreement < 0.99 {
		t.Fatalf("unexpected spoken result: %+v", spoken)
	}
}

func TestServerListsToolsOverTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := newTestServer(t)

	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	serverSession, err := srv.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := "parse_captions,plain_text,validate_markup,word_timings"
	if strings.Join(names, ",") != want {
		t.Fatalf("unexpected tools %v", names)
	}

	result, err := session.CallTool(ctx, &sdk.CallToolParams{
		Name:      "plain_text",
		Arguments: map[string]any{"input": "<speak>Hi there</speak>"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if got := resultText(t, result); got != "Hi there" {
		t.Fatalf("unexpected tool output %q", got)
	}
}
