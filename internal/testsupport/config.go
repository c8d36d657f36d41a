package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuekit/internal/captions"
	"cuekit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The cache is enabled and the log directory is left empty so tests only log
// where they ask to.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = ""
	cfgVal.Cache.Enabled = true
	cfgVal.Batch.MaxConcurrent = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithPauses sets the pause descriptor settings.
func WithPauses(show bool, thresholdMs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pauses.ShowDescriptors = show
		b.cfg.Pauses.DescriptorThresholdMs = thresholdMs
	}
}

// WithLogDir points the log directory at a fresh temp subdirectory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithCacheDisabled turns the track cache off.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// WithStubSynthesizer writes an executable that drains stdin and prints cues
// as a caption track in format, then configures it as the synthesizer.
func WithStubSynthesizer(format captions.Format, cues []captions.Cue) ConfigOption {
	return func(b *configBuilder) {
		rendered, err := captions.Render(cues, format)
		if err != nil {
			b.t.Fatalf("render stub captions: %v", err)
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		trackPath := filepath.Join(binDir, "track"+format.Extension())
		if err := os.WriteFile(trackPath, []byte(rendered), 0o644); err != nil {
			b.t.Fatalf("write stub track: %v", err)
		}
		script := fmt.Sprintf("#!/bin/sh\ncat >/dev/null\ncat '%s'\n", strings.ReplaceAll(trackPath, "'", `'\''`))
		target := filepath.Join(binDir, "stub-tts")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub synthesizer: %v", err)
		}
		b.cfg.Synth.Command = target
		b.cfg.Synth.Args = nil
		b.cfg.Synth.CaptionFormat = string(format)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
