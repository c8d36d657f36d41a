package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuekit/internal/captions"
	"cuekit/internal/config"
	"cuekit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", base)
	t.Setenv("CUEKIT_SHOW_PAUSE_DESCRIPTORS", "")
	t.Setenv("CUEKIT_PAUSE_THRESHOLD_MS", "")
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	args := make([]string, 0, len(cfg.Synth.Args))
	for _, arg := range cfg.Synth.Args {
		args = append(args, fmt.Sprintf("%q", arg))
	}
	content := fmt.Sprintf(`[pauses]
show_descriptors = %t
descriptor_threshold_ms = %d

[paths]
cache_dir = %q
log_dir = %q

[cache]
enabled = %t

[synth]
command = %q
args = [%s]
caption_format = %q
`,
		cfg.Pauses.ShowDescriptors,
		cfg.Pauses.DescriptorThresholdMs,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
		cfg.Cache.Enabled,
		cfg.Synth.Command,
		strings.Join(args, ", "),
		cfg.Synth.CaptionFormat,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCLIValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"validate"}, env.configPath, `Hello <break time="500ms"/> there`)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "stdin: valid (speak root added)")

	out, _, err = runCLI(t, []string{"validate", "--print"}, env.configPath, "Hi")
	if err != nil {
		t.Fatalf("validate --print: %v", err)
	}
	if strings.TrimSpace(out) != "<speak>Hi</speak>" {
		t.Fatalf("unexpected wrapped markup %q", out)
	}

	out, _, err = runCLI(t, []string{"validate", "-o", "json"}, env.configPath, `<speak><audio src="x.wav"/></speak>`)
	if err == nil {
		t.Fatal("expected invalid markup to fail")
	}
	var payload validateOutput
	if jsonErr := json.Unmarshal([]byte(out), &payload); jsonErr != nil {
		t.Fatalf("decode json: %v (%s)", jsonErr, out)
	}
	if payload.Valid || payload.Kind == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	requireContains(t, err.Error(), "invalid markup")
}

func TestCLIText(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteFile(t, filepath.Join(env.baseDir, "in.ssml"), "<speak>One <emphasis>two</emphasis> three</speak>")

	out, _, err := runCLI(t, []string{"text", path}, env.configPath, "")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if strings.TrimSpace(out) != "One two three" {
		t.Fatalf("unexpected text %q", out)
	}

	out, _, err = runCLI(t, []string{"text", "-o", "yaml"}, env.configPath, "<speak>x <b>y</speak>")
	if err != nil {
		t.Fatalf("text yaml: %v", err)
	}
	requireContains(t, out, "strategy: heuristic")
}

func TestCLICaptionsUsesCache(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteCaptionFile(t, env.baseDir, "episode", captions.FormatSRT, testsupport.SampleCues())

	out, _, err := runCLI(t, []string{"captions", "--strip-ads", path}, env.configPath, "")
	if err != nil {
		t.Fatalf("captions: %v", err)
	}
	requireContains(t, out, "See you tomorrow")
	requireContains(t, out, "2 cues (srt), 1 advertisements removed")

	out, _, err = runCLI(t, []string{"captions", "-o", "json", path}, env.configPath, "")
	if err != nil {
		t.Fatalf("captions json: %v", err)
	}
	var payload captionsOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !payload.Cached || len(payload.Cues) != 3 {
		t.Fatalf("expected cached 3-cue track, got %+v", payload)
	}

	out, _, err = runCLI(t, []string{"cache", "stats", "-o", "json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, `"entries": 1`)

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath, "")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 1 cached tracks")
}

func TestCLICaptionsRender(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	input := "1\n00:00:01,000 --> 00:00:02,000\n<i>Hello</i>\n"

	out, _, err := runCLI(t, []string{"captions", "--render", "vtt"}, env.configPath, input)
	if err != nil {
		t.Fatalf("captions --render: %v", err)
	}
	if out != "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello\n\n" {
		t.Fatalf("unexpected rendering %q", out)
	}
}

func TestCLIWords(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	input := "WEBVTT\n\n00:00.000 --> 00:01.000\nalpha beta\n"

	out, _, err := runCLI(t, []string{"words", "-o", "json"}, env.configPath, input)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	var payload wordsOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(payload.Cues) != 1 || len(payload.Cues[0].Words) != 2 || payload.Cues[0].Words[1].StartMs != 500 {
		t.Fatalf("unexpected words %+v", payload)
	}
}

func TestCLIBatch(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	good := testsupport.WriteCaptionFile(t, env.baseDir, "good", captions.FormatSRT, testsupport.SampleCues())
	missing := filepath.Join(env.baseDir, "missing.srt")
	outDir := filepath.Join(env.baseDir, "out")

	out, _, err := runCLI(t, []string{"batch", "--strip-ads", "--render", "vtt", "-d", outDir, good}, env.configPath, "")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	requireContains(t, out, "1 ok, 0 failed")
	data, err := os.ReadFile(filepath.Join(outDir, "good.vtt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(string(data), "Subtitles by") {
		t.Fatalf("expected advertisement to be stripped:\n%s", data)
	}

	_, _, err = runCLI(t, []string{"batch", good, missing}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("expected partial failure, got %v", err)
	}
}

func TestCLISpeak(t *testing.T) {
	cues := []captions.Cue{{ID: "1", StartMs: 0, EndMs: 1200, Text: "Welcome back"}}
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled(), testsupport.WithStubSynthesizer(captions.FormatVTT, cues))

	out, _, err := runCLI(t, []string{"speak"}, env.configPath, "<speak>Welcome back</speak>")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	requireContains(t, out, "Text:      Welcome back")
	requireContains(t, out, "diverged: no")
}

func TestCLISpeakRequiresCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	_, _, err := runCLI(t, []string{"speak"}, env.configPath, "<speak>Hi</speak>")
	if err == nil || !strings.Contains(err.Error(), "synth.command") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCLIDoctor(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath, "")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Cache directory:")
	requireContains(t, out, "Track cache:")
	requireContains(t, out, "[OK]")
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected existing config to be refused")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestCLIRejectsUnknownOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"text", "-o", "xml"}, env.configPath, "hi")
	if err == nil || !strings.Contains(err.Error(), "invalid --output") {
		t.Fatalf("expected output format error, got %v", err)
	}
}

func TestCLILogLevelOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"--log-level", "loud", "text"}, env.configPath, "hi")
	if err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}
