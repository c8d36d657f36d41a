package synth

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"cuekit/internal/captions"
	"cuekit/internal/config"
	"cuekit/internal/services"
)

type recordingExecutor struct {
	binary string
	args   []string
	stdin  string
	out    []byte
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string, stdin io.Reader) ([]byte, error) {
	r.binary = binary
	r.args = args
	data, _ := io.ReadAll(stdin)
	r.stdin = string(data)
	return r.out, r.err
}

func testSynthConfig() config.Synth {
	cfg := config.Default().Synth
	cfg.Command = "say-ssml"
	cfg.Args = []string{"--out", "{audio}", "--captions=-"}
	return cfg
}

func TestNewCommandRequiresBinary(t *testing.T) {
	cfg := config.Default().Synth
	if _, err := NewCommand(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cfg.Command = "tts"
	cfg.CaptionFormat = "ass"
	if _, err := NewCommand(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for format, got %v", err)
	}
}

func TestCommandSynthesizePipesMarkup(t *testing.T) {
	runner := &recordingExecutor{out: []byte("WEBVTT\n\n00:00.000 --> 00:01.000\nHi\n")}
	cmd, err := NewCommand(testSynthConfig(), WithExecutor(runner))
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	out, err := cmd.Synthesize(context.Background(), Request{Markup: "<speak>Hi</speak>", AudioPath: "/tmp/hi.wav"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if runner.binary != "say-ssml" || runner.stdin != "<speak>Hi</speak>" {
		t.Fatalf("unexpected invocation %+v", runner)
	}
	if want := []string{"--out", "/tmp/hi.wav", "--captions=-"}; !reflect.DeepEqual(runner.args, want) {
		t.Fatalf("args = %q, want %q", runner.args, want)
	}
	if out.Format != captions.FormatVTT || out.AudioPath != "/tmp/hi.wav" || out.Captions == "" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestCommandSynthesizeRequestFormatWins(t *testing.T) {
	runner := &recordingExecutor{}
	cmd, err := NewCommand(testSynthConfig(), WithExecutor(runner))
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	out, err := cmd.Synthesize(context.Background(), Request{Markup: "<speak/>", Format: captions.FormatSRT})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out.Format != captions.FormatSRT {
		t.Fatalf("expected request format, got %s", out.Format)
	}
}

func TestCommandSynthesizeWrapsFailures(t *testing.T) {
	runner := &recordingExecutor{err: errors.New("exit status 3")}
	cmd, err := NewCommand(testSynthConfig(), WithExecutor(runner))
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	_, err = cmd.Synthesize(context.Background(), Request{Markup: "<speak/>"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestCommandRunsRealProcess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-tts")
	body := "#!/bin/sh\ncat > \"$1.ssml\"\nprintf '1\\n00:00:00,000 --> 00:00:01,000\\nHello\\n'\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	cfg := config.Default().Synth
	cfg.Command = script
	cfg.Args = []string{AudioPlaceholder}
	cfg.CaptionFormat = "srt"
	cmd, err := NewCommand(cfg)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	audio := filepath.Join(dir, "out.wav")
	out, err := cmd.Synthesize(context.Background(), Request{Markup: "<speak>Hello</speak>", AudioPath: audio})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out.Captions != "1\n00:00:00,000 --> 00:00:01,000\nHello\n" {
		t.Fatalf("unexpected captions %q", out.Captions)
	}
	if data, err := os.ReadFile(audio + ".ssml"); err != nil || string(data) != "<speak>Hello</speak>" {
		t.Fatalf("expected markup on stdin, got %q (%v)", data, err)
	}
}

func TestCommandTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	cfg := config.Default().Synth
	cfg.Command = "sleep"
	cfg.Args = []string{"5"}
	cmd, err := NewCommand(cfg)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	cmd.timeout = 50 * time.Millisecond
	_, err = cmd.Synthesize(context.Background(), Request{Markup: "<speak/>"})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestCommandRateLimitHonoursContext(t *testing.T) {
	cfg := testSynthConfig()
	cfg.RequestsPerMinute = 1
	runner := &recordingExecutor{out: []byte("WEBVTT\n")}
	cmd, err := NewCommand(cfg, WithExecutor(runner))
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	if _, err := cmd.Synthesize(context.Background(), Request{Markup: "a"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := cmd.Synthesize(ctx, Request{Markup: "b"}); err == nil {
		t.Fatal("expected second call to be throttled")
	}
	if runner.stdin != "a" {
		t.Fatalf("expected throttled call not to run, last stdin %q", runner.stdin)
	}
}
