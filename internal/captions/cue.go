package captions

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Cue is one timed caption entry. ID is the 1-based position of the cue among
// the cues produced by one parse.
type Cue struct {
	ID      string `json:"id"`
	StartMs uint64 `json:"start_ms"`
	EndMs   uint64 `json:"end_ms"`
	Text    string `json:"text"`
}

// DurationMs returns EndMs-StartMs, or zero for an inverted cue.
func (c Cue) DurationMs() uint64 {
	if c.EndMs < c.StartMs {
		return 0
	}
	return c.EndMs - c.StartMs
}

// WordTiming is the approximate interval of one word within a cue.
type WordTiming struct {
	Word    string `json:"word"`
	StartMs uint64 `json:"start_ms"`
	EndMs   uint64 `json:"end_ms"`
}

// Format names a caption file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ErrUnsupportedFormat is returned for caption formats other than SRT and VTT.
var ErrUnsupportedFormat = errors.New("unsupported caption format")

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "srt", "subrip":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// DetectFormat reports VTT when the first non-blank line starts with WEBVTT
// and SRT otherwise.
func DetectFormat(content string) Format {
	content = strings.TrimPrefix(content, "\ufeff")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "WEBVTT") {
			return FormatVTT
		}
		return FormatSRT
	}
	return FormatSRT
}

// FormatForPath picks the format from the file extension, falling back to
// content detection.
func FormatForPath(path, content string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	default:
		return DetectFormat(content)
	}
}
