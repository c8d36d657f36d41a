package captions

import (
	"fmt"
	"strconv"
	"strings"
)

// TextCleaner turns raw cue text into displayable text.
type TextCleaner interface {
	ToPlainText(string) string
}

type collapseCleaner struct{}

func (collapseCleaner) ToPlainText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SkippedCue records a cue dropped during parsing. Line is the 1-based line
// number where the cue block starts.
type SkippedCue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseResult holds parsed cues in file order and the cues that were skipped.
type ParseResult struct {
	Cues    []Cue        `json:"cues"`
	Skipped []SkippedCue `json:"skipped,omitempty"`
}

// Parser parses caption tracks. It holds no mutable state and is safe for
// concurrent use.
type Parser struct {
	cleaner TextCleaner
}

// NewParser returns a Parser that cleans cue text with cleaner. A nil cleaner
// only collapses whitespace.
func NewParser(cleaner TextCleaner) *Parser {
	if cleaner == nil {
		cleaner = collapseCleaner{}
	}
	return &Parser{cleaner: cleaner}
}

// Parse returns the well-formed cues of content.
func (p *Parser) Parse(content string, format Format) ([]Cue, error) {
	result, err := p.ParseDetailed(content, format)
	if err != nil {
		return nil, err
	}
	return result.Cues, nil
}

// ParseDetailed parses content and also reports skipped cues.
func (p *Parser) ParseDetailed(content string, format Format) (ParseResult, error) {
	switch format {
	case FormatSRT:
		return p.parseSRT(content), nil
	case FormatVTT:
		return p.parseVTT(content), nil
	default:
		return ParseResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// block is a run of non-blank lines; line is the 1-based number of its first
// line.
type block struct {
	line  int
	lines []string
}

func splitBlocks(content string) []block {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	var blocks []block
	var current *block
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &block{line: i + 1}
		}
		current.lines = append(current.lines, strings.TrimRight(line, " \t"))
	}
	if current != nil {
		blocks = append(blocks, *current)
	}
	return blocks
}

// timingIndex returns the position of the "-->" line among the first two
// lines of b, or -1.
func timingIndex(b block) int {
	for i := 0; i < len(b.lines) && i < 2; i++ {
		if strings.Contains(b.lines[i], "-->") {
			return i
		}
	}
	return -1
}

func (p *Parser) parseSRT(content string) ParseResult {
	var result ParseResult
	for _, b := range splitBlocks(content) {
		idx := timingIndex(b)
		if idx < 0 {
			result.Skipped = append(result.Skipped, SkippedCue{Line: b.line, Reason: "missing timestamp line"})
			continue
		}
		p.appendCue(&result, b, idx, false)
	}
	return result
}

func (p *Parser) parseVTT(content string) ParseResult {
	var result ParseResult
	for i, b := range splitBlocks(content) {
		first := strings.TrimSpace(b.lines[0])
		if i == 0 && strings.HasPrefix(first, "WEBVTT") {
			continue
		}
		if isVTTMetadataBlock(first) {
			continue
		}
		idx := timingIndex(b)
		if idx < 0 {
			result.Skipped = append(result.Skipped, SkippedCue{Line: b.line, Reason: "missing timestamp line"})
			continue
		}
		p.appendCue(&result, b, idx, true)
	}
	return result
}

func isVTTMetadataBlock(first string) bool {
	for _, keyword := range []string{"NOTE", "STYLE", "REGION"} {
		if first == keyword || strings.HasPrefix(first, keyword+" ") || strings.HasPrefix(first, keyword+"\t") {
			return true
		}
	}
	return false
}

func (p *Parser) appendCue(result *ParseResult, b block, idx int, allowShort bool) {
	start, end, err := parseTiming(b.lines[idx], allowShort)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedCue{Line: b.line + idx, Reason: err.Error()})
		return
	}
	text := strings.Join(b.lines[idx+1:], " ")
	result.Cues = append(result.Cues, Cue{
		ID:      strconv.Itoa(len(result.Cues) + 1),
		StartMs: start,
		EndMs:   end,
		Text:    p.cleaner.ToPlainText(text),
	})
}
