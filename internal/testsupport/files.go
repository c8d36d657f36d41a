package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cuekit/internal/captions"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteCaptionFile renders cues in format to dir/name plus the format's
// extension and returns the path.
func WriteCaptionFile(t testing.TB, dir, name string, format captions.Format, cues []captions.Cue) string {
	t.Helper()

	rendered, err := captions.Render(cues, format)
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return WriteFile(t, filepath.Join(dir, name+format.Extension()), rendered)
}

// SampleCues returns a short dialogue track with one advertisement cue.
func SampleCues() []captions.Cue {
	return []captions.Cue{
		{ID: "1", StartMs: 1000, EndMs: 2500, Text: "Hello there"},
		{ID: "2", StartMs: 3000, EndMs: 4000, Text: "Subtitles by Example Group"},
		{ID: "3", StartMs: 4500, EndMs: 6000, Text: "See you tomorrow"},
	}
}
