package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the repair loop; real inputs settle in two or three.
const maxPasses = 8

const (
	markupPunctuation   = `<>()"'*=/`
	sentencePunctuation = ".,!?;:"
)

var (
	camelCasePattern    = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	letterDigitPattern  = regexp.MustCompile(`(\p{L})([0-9])`)
	digitLettersPattern = regexp.MustCompile(`[0-9]\p{L}+`)
	bareDurationPattern = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]+)?\s*(?:[mM][sS]|s)\b`)
	unitWordPattern     = regexp.MustCompile(`\b(?:ms|hz|khz)\b`)
	spaceBeforePunct    = regexp.MustCompile(`\s+([.,!?;:])`)
)

var ordinalSuffixes = map[string]struct{}{"st": {}, "nd": {}, "rd": {}, "th": {}}

// Normalizer repairs markup artifacts in text. It is safe for concurrent use.
type Normalizer struct {
	cfg Config
}

// New returns a Normalizer bound to cfg.
func New(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Config returns the configuration the normalizer was built with.
func (n *Normalizer) Config() Config {
	if n == nil {
		return DefaultConfig()
	}
	return n.cfg
}

// state is per-call scratch: recorded pauses and whether the text has shown
// markup leakage yet.
type state struct {
	pauses    []pause
	evidence  bool
	keepProse bool
}

// Normalize returns text with pause annotations resolved and keyword
// artifacts removed. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(text string) string {
	cfg := n.Config()
	text = stripPlaceholders(norm.NFC.String(text))
	if strings.TrimSpace(text) == "" {
		return ""
	}
	st := &state{keepProse: cfg.KeepProseKeywords}
	text = st.repair(text)
	text = st.restorePauses(text, cfg)
	return st.repair(text)
}

// repair runs the cleanup pass until the text stops changing.
func (st *state) repair(text string) string {
	for range maxPasses {
		next := st.pass(text)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func (st *state) pass(text string) string {
	text = st.extractPauses(text)
	if strings.ContainsAny(text, "<>=") {
		st.evidence = true
	}
	text = st.stripResidue(text)
	text = st.stripMarkupOnly(text)
	text = st.deglueKeywords(text)
	text = camelCasePattern.ReplaceAllString(text, "$1 $2")
	text = letterDigitPattern.ReplaceAllString(text, "$1 $2")
	text = digitLettersPattern.ReplaceAllStringFunc(text, splitDigitLetters)
	text = st.dropStandaloneKeywords(text)
	text = stripMarkupPunctuation(text)
	text = collapseSpaces(text)
	text = bareDurationPattern.ReplaceAllString(text, " ")
	text = unitWordPattern.ReplaceAllString(text, " ")
	return collapseSpaces(text)
}

// splitDigitLetters separates a digit from the letters after it. Unit
// suffixes stay attached to the number and are split from any word glued
// behind them; ordinal suffixes stay attached.
func splitDigitLetters(match string) string {
	digit, run := match[:1], match[1:]
	lower := strings.ToLower(run)
	for _, unit := range []string{"khz", "hz", "ms"} {
		if lower == unit {
			return match
		}
		if strings.HasPrefix(lower, unit) && len(run) > len(unit) {
			return digit + run[:len(unit)] + " " + run[len(unit):]
		}
	}
	if lower == "s" {
		return match
	}
	if run[0] == 's' || run[0] == 'S' {
		if next, _ := utf8.DecodeRuneInString(run[1:]); unicode.IsUpper(next) {
			return digit + run[:1] + " " + run[1:]
		}
	}
	if _, ok := ordinalSuffixes[lower]; ok {
		return match
	}
	return digit + " " + run
}

// stripMarkupPunctuation deletes quotes, keeps apostrophes inside words and
// turns the remaining markup punctuation into spaces.
func stripMarkupPunctuation(text string) string {
	if !strings.ContainsAny(text, markupPunctuation) {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		switch r {
		case '"':
		case '\'':
			if i > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]) {
				b.WriteRune(r)
			}
		case '<', '>', '(', ')', '*', '=', '/':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return spaceBeforePunct.ReplaceAllString(text, "$1")
}
