package plaintext

import (
	"regexp"
	"strings"
)

var captionTimingPattern = regexp.MustCompile(`^\s*(?:\d{1,2}:)?\d{2}:\d{2}[.,]\d{3}\s*-->\s*(?:\d{1,2}:)?\d{2}:\d{2}[.,]\d{3}`)

// splitBlocks splits content on blank lines. Lines inside a block keep their
// original text.
func splitBlocks(content string) [][]string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// timingLine returns the index of the cue timing line within the first two
// lines of block, or -1.
func timingLine(block []string) int {
	for i := 0; i < len(block) && i < 2; i++ {
		if captionTimingPattern.MatchString(block[i]) {
			return i
		}
	}
	return -1
}

func isCaptionFile(input string) bool {
	if !strings.Contains(input, "-->") {
		return false
	}
	for _, block := range splitBlocks(input) {
		if timingLine(block) >= 0 {
			return true
		}
	}
	return false
}

// cleanCaptionFile cleans cue text lines and keeps index, timing and header
// blocks verbatim.
func (e *Extractor) cleanCaptionFile(input string) string {
	blocks := splitBlocks(input)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		idx := timingLine(block)
		if idx < 0 {
			out = append(out, strings.Join(block, "\n"))
			continue
		}
		lines := append([]string(nil), block[:idx+1]...)
		for _, line := range block[idx+1:] {
			if cleaned := e.cleanUtterance(line); cleaned != "" {
				lines = append(lines, cleaned)
			}
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	result := strings.Join(out, "\n\n")
	if strings.HasSuffix(input, "\n") && result != "" {
		result += "\n"
	}
	return result
}
