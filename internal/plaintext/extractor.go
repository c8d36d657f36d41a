package plaintext

import (
	"html"
	"regexp"
	"strings"

	"cuekit/internal/markup"
	"cuekit/internal/normalize"
)

// Strategy names reported by Extractor.Strategy.
const (
	StrategyXML       = "xml"
	StrategyHeuristic = "heuristic"
	StrategyCaptions  = "captions"
)

// strategy produces raw text (with pause markers) from one utterance.
type strategy interface {
	name() string
	extract(input string) string
}

// Extractor converts markup to plain text. It is safe for concurrent use.
type Extractor struct {
	normalizer *normalize.Normalizer
	xml        strategy
	heuristic  strategy
}

// New returns an Extractor that finishes text with n. A nil normalizer uses
// the default pause configuration.
func New(n *normalize.Normalizer) *Extractor {
	if n == nil {
		n = normalize.New(normalize.DefaultConfig())
	}
	return &Extractor{
		normalizer: n,
		xml:        xmlStrategy{},
		heuristic:  heuristicStrategy{},
	}
}

// ToPlainText returns displayable text for input. It never fails; malformed
// markup degrades to heuristic cleanup.
func (e *Extractor) ToPlainText(input string) string {
	if isCaptionFile(input) {
		return e.cleanCaptionFile(input)
	}
	return e.cleanUtterance(input)
}

// Strategy reports which extraction path ToPlainText takes for input.
func (e *Extractor) Strategy(input string) string {
	if isCaptionFile(input) {
		return StrategyCaptions
	}
	return e.selectStrategy(input).name()
}

func (e *Extractor) selectStrategy(input string) strategy {
	if markup.WellFormed(input) {
		return e.xml
	}
	return e.heuristic
}

func (e *Extractor) cleanUtterance(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	raw := e.selectStrategy(input).extract(input)
	return e.normalizer.Normalize(strings.Join(strings.Fields(raw), " "))
}

type xmlStrategy struct{}

func (xmlStrategy) name() string { return StrategyXML }

func (xmlStrategy) extract(input string) string {
	doc, err := markup.Parse(input)
	if err != nil {
		return heuristicStrategy{}.extract(input)
	}
	var parts []string
	collectText(doc.Nodes, &parts)
	return strings.Join(parts, " ")
}

func collectText(nodes []markup.Node, parts *[]string) {
	for _, node := range nodes {
		switch n := node.(type) {
		case markup.Text:
			*parts = append(*parts, string(n))
		case *markup.Element:
			if n.Name == "break" {
				value, _ := n.Attr("time")
				*parts = append(*parts, pauseMarker(value))
			}
			collectText(n.Children, parts)
		}
	}
}

// pauseMarker renders the textual marker the normalizer resolves.
func pauseMarker(duration string) string {
	duration = strings.Trim(strings.TrimSpace(duration), "[]")
	if duration == "" {
		return "[pause]"
	}
	return "[pause " + duration + "]"
}

var (
	breakTagPattern = regexp.MustCompile(`(?i)<\s*break\b[^<>]*>`)
	timeAttrPattern = regexp.MustCompile(`(?i)\btime\s*=\s*["']?\s*([^"'\s/>]+)`)
	anyTagPattern   = regexp.MustCompile(`<[^<>]*>`)
)

type heuristicStrategy struct{}

func (heuristicStrategy) name() string { return StrategyHeuristic }

func (heuristicStrategy) extract(input string) string {
	text := breakTagPattern.ReplaceAllStringFunc(input, func(tag string) string {
		if match := timeAttrPattern.FindStringSubmatch(tag); match != nil {
			return " " + pauseMarker(match[1]) + " "
		}
		return " " + pauseMarker("") + " "
	})
	text = anyTagPattern.ReplaceAllString(text, " ")
	return html.UnescapeString(text)
}
