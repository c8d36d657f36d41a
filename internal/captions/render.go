package captions

import (
	"fmt"
	"strings"
)

// RenderSRT serializes cues as SubRip, numbering them from 1.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, FormatTimestamp(cue.StartMs, ','), FormatTimestamp(cue.EndMs, ','), cue.Text)
	}
	return b.String()
}

// RenderVTT serializes cues as WebVTT.
func RenderVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, cue := range cues {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n", FormatTimestamp(cue.StartMs, '.'), FormatTimestamp(cue.EndMs, '.'), cue.Text)
	}
	return b.String()
}

// Render serializes cues in the given format.
func Render(cues []Cue, format Format) (string, error) {
	switch format {
	case FormatSRT:
		return RenderSRT(cues), nil
	case FormatVTT:
		return RenderVTT(cues), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}
