package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultThresholdMs is the shortest pause rendered as a descriptor.
const DefaultThresholdMs = 800

// LongSilence is the descriptor emitted for long pauses.
const LongSilence = "[long silence]"

// Config controls how pause placeholders resolve and how keyword artifacts
// are removed.
type Config struct {
	ShowDescriptors bool
	ThresholdMs     uint32
	// KeepProseKeywords limits glued-keyword stripping to joins across a case
	// or letter/digit change, and drops standalone keywords only once the text
	// shows markup leakage. Off by default.
	KeepProseKeywords bool
}

// DefaultConfig hides pauses and uses the default threshold.
func DefaultConfig() Config {
	return Config{ThresholdMs: DefaultThresholdMs}
}

const (
	placeholderFirst rune = 0xF0000
	placeholderLast  rune = 0xFFFFD
)

func isPlaceholder(r rune) bool {
	return r >= placeholderFirst && r <= placeholderLast
}

func stripPlaceholders(s string) string {
	if !strings.ContainsFunc(s, isPlaceholder) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isPlaceholder(r) {
			return -1
		}
		return r
	}, s)
}

// pause is one recorded pause; ms is -1 when the duration is unknown.
type pause struct {
	ms int64
}

func (p pause) known() bool { return p.ms >= 0 }

var (
	bracketPausePattern = regexp.MustCompile(`(?i)\[\s*pause\b([^\[\]]*)\]`)
	timePausePattern    = regexp.MustCompile(`(?i)time\s*=?\s*["']?\s*(\d+(?:\.\d+)?)\s*(ms|s)["']?`)
	durationPattern     = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(ms|s)?$`)
)

// parseDurationMs converts "400ms", "1.5s" or "250" to milliseconds.
func parseDurationMs(value string) (int64, bool) {
	match := durationPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	return toMillis(match[1], match[2])
}

func toMillis(number, unit string) (int64, bool) {
	amount, err := strconv.ParseFloat(number, 64)
	if err != nil || amount < 0 {
		return 0, false
	}
	if strings.EqualFold(unit, "s") {
		amount *= 1000
	}
	if amount > math.MaxInt64/2 {
		return 0, false
	}
	return int64(math.Round(amount)), true
}

// extractPauses replaces pause annotations with placeholder runes and records
// their durations in st.
func (st *state) extractPauses(text string) string {
	text = bracketPausePattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := bracketPausePattern.FindStringSubmatch(m)[1]
		ms := int64(-1)
		if parsed, ok := parseDurationMs(inner); ok {
			ms = parsed
		}
		return st.placeholder(ms)
	})

	matches := timePausePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		unitEnd := m[5]
		if !timeKeywordBoundary(text, start) || !unitBoundary(text, unitEnd) {
			continue
		}
		ms, ok := toMillis(text[m[2]:m[3]], text[m[4]:m[5]])
		if !ok {
			ms = -1
		}
		b.WriteString(text[last:start])
		b.WriteString(st.placeholder(ms))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// timeKeywordBoundary accepts "time" at a word start, or glued to a
// lowercase letter or digit when written "Time".
func timeKeywordBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
		return true
	}
	return text[start] == 'T' && (unicode.IsLower(prev) || unicode.IsDigit(prev))
}

// unitBoundary rejects units that continue as a lowercase word ("5seconds").
func unitBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLower(next)
}

// placeholder records a pause and returns its placeholder, padded with spaces.
func (st *state) placeholder(ms int64) string {
	st.evidence = true
	index := len(st.pauses)
	r := placeholderFirst + rune(index)
	if r > placeholderLast {
		return " "
	}
	st.pauses = append(st.pauses, pause{ms: ms})
	return " " + string(r) + " "
}

// restorePauses resolves every placeholder to nothing or to LongSilence.
func (st *state) restorePauses(text string, cfg Config) string {
	if len(st.pauses) == 0 {
		return stripPlaceholders(text)
	}
	var b strings.Builder
	for _, r := range text {
		if !isPlaceholder(r) {
			b.WriteRune(r)
			continue
		}
		index := int(r - placeholderFirst)
		if index >= len(st.pauses) {
			continue
		}
		p := st.pauses[index]
		if cfg.ShowDescriptors && p.known() && p.ms >= int64(cfg.ThresholdMs) {
			b.WriteString(" " + LongSilence + " ")
		}
	}
	return b.String()
}
