package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords are the element and attribute names that leak into caption text.
var Keywords = []string{
	"speak", "break", "prosody", "rate", "pitch", "volume", "say-as", "time",
	"strength", "level", "alias", "interpret-as", "lex", "voice", "phoneme", "sub",
}

// markupOnly keywords never occur in ordinary prose.
var markupOnly = map[string]struct{}{
	"prosody":      {},
	"say-as":       {},
	"interpret-as": {},
	"phoneme":      {},
}

func isKeyword(token string) bool {
	lower := strings.ToLower(token)
	for _, kw := range Keywords {
		if lower == kw {
			return true
		}
	}
	return false
}

func isMarkupOnly(token string) bool {
	_, ok := markupOnly[strings.ToLower(token)]
	return ok
}

// lowerRun returns the leading run of lowercase letters in s.
func lowerRun(s string) string {
	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsLower(r) {
			break
		}
		end += size
	}
	return s[:end]
}

var (
	markupOnlyPattern = regexp.MustCompile(`(?i)prosody|say-as|interpret-as|phoneme`)

	gluedPrefixPattern      *regexp.Regexp
	gluedTitleSuffixPattern *regexp.Regexp
	gluedDigitSuffixPattern *regexp.Regexp

	anyPrefixPattern *regexp.Regexp
	anySuffixPattern *regexp.Regexp

	residueAttrPattern  *regexp.Regexp
	residueOpenPattern  *regexp.Regexp
	residueClosePattern *regexp.Regexp
)

func init() {
	var lower, title []string
	for _, kw := range Keywords {
		if _, ok := markupOnly[kw]; ok {
			continue
		}
		lower = append(lower, regexp.QuoteMeta(kw))
		title = append(title, regexp.QuoteMeta(strings.ToUpper(kw[:1])+kw[1:]))
	}
	lowerAlt := strings.Join(lower, "|")
	titleAlt := strings.Join(title, "|")

	gluedPrefixPattern = regexp.MustCompile(`\b(?:` + lowerAlt + `|` + titleAlt + `)([\p{Lu}0-9])`)
	gluedTitleSuffixPattern = regexp.MustCompile(`([\p{Ll}0-9])(?:` + titleAlt + `)\b`)
	gluedDigitSuffixPattern = regexp.MustCompile(`([0-9])(?:` + lowerAlt + `)\b`)

	var all []string
	for _, kw := range Keywords {
		all = append(all, regexp.QuoteMeta(kw))
	}
	// Longest first so "interpret-as" wins over shorter alternatives.
	sort.SliceStable(all, func(i, j int) bool { return len(all[i]) > len(all[j]) })
	allAlt := strings.Join(all, "|")
	anyPrefixPattern = regexp.MustCompile(`(?i)\b(?:` + allAlt + `)([\p{L}0-9])`)
	anySuffixPattern = regexp.MustCompile(`(?i)([\p{L}0-9])(?:` + allAlt + `)\b`)
	residueAttrPattern = regexp.MustCompile(`(?i)\b(?:` + allAlt + `)\s*=\s*(?:"[^"]*"?|'[^']*'?|[^\s<>"']*)`)
	residueOpenPattern = regexp.MustCompile(`(?i)<\s*/?\s*(?:` + allAlt + `)\b`)
	residueClosePattern = regexp.MustCompile(`(?i)\b(?:` + allAlt + `)\s*/?\s*>`)
}

// stripMarkupOnly removes markup-only keywords wherever they touch a word,
// except in their plural form ("phonemes").
func (st *state) stripMarkupOnly(text string) string {
	matches := markupOnlyPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if lowerRun(text[m[1]:]) == "s" {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteByte(' ')
		last = m[1]
		st.evidence = true
	}
	b.WriteString(text[last:])
	return b.String()
}

// deglueKeywords strips keywords glued to the start or end of a word in any
// case: "speakhello", "helloBreak", "4break". With keepProse set only joins
// across a case or class transition count: "speakHello", "rate1".
func (st *state) deglueKeywords(text string) string {
	var out string
	if st.keepProse {
		out = gluedPrefixPattern.ReplaceAllString(text, "$1")
		out = gluedTitleSuffixPattern.ReplaceAllString(out, "$1 ")
		out = gluedDigitSuffixPattern.ReplaceAllString(out, "$1 ")
	} else {
		out = anyPrefixPattern.ReplaceAllString(text, "$1")
		out = anySuffixPattern.ReplaceAllString(out, "$1 ")
	}
	if out != text {
		st.evidence = true
	}
	return out
}

// stripResidue removes attribute assignments and tag fragments built from
// keywords, such as rate="slow", <break and speak>.
func (st *state) stripResidue(text string) string {
	out := residueAttrPattern.ReplaceAllString(text, " ")
	out = residueOpenPattern.ReplaceAllString(out, " ")
	out = residueClosePattern.ReplaceAllString(out, " ")
	if out != text {
		st.evidence = true
	}
	return out
}

// dropStandaloneKeywords removes keyword tokens, keeping any sentence
// punctuation that trailed them. With keepProse set, keywords that are also
// ordinary words go only once the text has shown markup leakage.
func (st *state) dropStandaloneKeywords(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, field := range fields {
		core := strings.Trim(field, markupPunctuation+sentencePunctuation)
		switch {
		case core == "" || !isKeyword(core):
			kept = append(kept, field)
			continue
		case isMarkupOnly(core):
			st.evidence = true
		case st.keepProse && !st.evidence:
			kept = append(kept, field)
			continue
		}
		tail := field[len(strings.TrimRight(field, sentencePunctuation)):]
		if tail != "" && len(kept) > 0 {
			kept = append(kept, tail)
		}
	}
	return strings.Join(kept, " ")
}
