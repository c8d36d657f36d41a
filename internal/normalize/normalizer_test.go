package normalize

import (
	"strings"
	"testing"
)

func TestNormalizeRepairsArtifacts(t *testing.T) {
	n := New(DefaultConfig())
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "glued prefix keyword", input: "speakHello world", want: "Hello world"},
		{name: "glued suffix keyword", input: "helloBreak there", want: "hello there"},
		{name: "digit glued keyword", input: "count to 4break now", want: "count to 4 now"},
		{name: "markup only keyword", input: "Hello prosody world", want: "Hello world"},
		{name: "markup only glued", input: "Hello prosodyworld", want: "Hello world"},
		{name: "say-as standalone", input: "call say-as me", want: "call me"},
		{name: "attribute residue", input: `rate="slow" Hello there`, want: "Hello there"},
		{name: "tag residue", input: `<prosody rate="slow">Hello world</prosody>`, want: "Hello world"},
		{name: "camel case", input: "helloWorld", want: "hello World"},
		{name: "letter digit", input: "version2update", want: "version 2 update"},
		{name: "ordinal kept", input: "Finish 2nd lap", want: "Finish 2nd lap"},
		{name: "unit glued to word", input: "wait 5msHello", want: "wait Hello"},
		{name: "bare duration swept", input: "It was 400ms long", want: "It was long"},
		{name: "bare unit word swept", input: "sampled at ms and hz", want: "sampled at and"},
		{name: "lowercase glued prefix", input: "speakhello world", want: "hello world"},
		{name: "lowercase glued suffix", input: "hellobreak there", want: "hello there"},
		{name: "standalone keyword", input: "It is time to go", want: "It is to go"},
		{name: "standalone keywords", input: "speak up at a high level", want: "up at a high"},
		{name: "keyword before punctuation", input: "Wait for the break.", want: "Wait for the."},
		{name: "time pause", input: "Wait time400ms then go", want: "Wait then go"},
		{name: "time attribute pause", input: `Wait time="1.5s" then go`, want: "Wait then go"},
		{name: "bracket pause", input: "Hello [pause 400ms] world", want: "Hello world"},
		{name: "unknown pause", input: "Hello [pause] world", want: "Hello world"},
		{name: "quotes removed", input: `He said "hi" (twice)`, want: "He said hi twice"},
		{name: "contraction kept", input: "don't stop", want: "don't stop"},
		{name: "space before punctuation", input: "Hello [pause 1s] .", want: "Hello."},
		{name: "empty", input: "   ", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeKeepsProseKeywordsWhenConfigured(t *testing.T) {
	n := New(Config{ThresholdMs: DefaultThresholdMs, KeepProseKeywords: true})
	inputs := []string{
		"Take a break and check the rate",
		"Raise your voice to the next level",
		"phonemes are fun",
		"Sometime 5 seconds is enough",
	}
	for _, input := range inputs {
		if got := n.Normalize(input); got != input {
			t.Fatalf("expected prose to survive, Normalize(%q) = %q", input, got)
		}
	}
}

func TestNormalizeRemovesStandaloneKeywordsWithEvidence(t *testing.T) {
	n := New(Config{ThresholdMs: DefaultThresholdMs, KeepProseKeywords: true})
	got := n.Normalize("speakHello break world [pause]")
	if got != "Hello world" {
		t.Fatalf("expected keyword removal once leakage is evident, got %q", got)
	}
	if got := n.Normalize("speakhello world"); got != "speakhello world" {
		t.Fatalf("expected lowercase join to survive without a case change, got %q", got)
	}
}

func TestNormalizeRemovesProseKeywordsByDefault(t *testing.T) {
	n := New(DefaultConfig())
	if got := n.Normalize("Take a break and check the rate"); got != "Take a and check the" {
		t.Fatalf("expected standalone keywords removed, got %q", got)
	}
	if got := n.Normalize("In the 1990s we danced"); got != "In the we danced" {
		t.Fatalf("expected bare duration token removed, got %q", got)
	}
}

func TestNormalizePauseDescriptors(t *testing.T) {
	n := New(Config{ShowDescriptors: true, ThresholdMs: 300})
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hello [pause 400ms] world", want: "Hello " + LongSilence + " world"},
		{input: "Hello [pause 1.5s] world", want: "Hello " + LongSilence + " world"},
		{input: "Hello [pause 300ms] world", want: "Hello " + LongSilence + " world"},
		{input: "Hello [pause 200ms] world", want: "Hello world"},
		{input: "Hello [pause] world", want: "Hello world"},
		{input: "Hello [pause strong] world", want: "Hello world"},
		{input: "Hello time 400ms world", want: "Hello " + LongSilence + " world"},
	}
	for _, tc := range tests {
		if got := n.Normalize(tc.input); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeDescriptorsDisabledByDefault(t *testing.T) {
	n := New(DefaultConfig())
	if got := n.Normalize("Hello [pause 5s] world"); got != "Hello world" {
		t.Fatalf("expected pause to vanish, got %q", got)
	}
	var nilNormalizer *Normalizer
	if got := nilNormalizer.Normalize("Hello [pause 5s] world"); got != "Hello world" {
		t.Fatalf("expected nil normalizer to use defaults, got %q", got)
	}
}

func TestNormalizeDropsPlaceholderRunesFromInput(t *testing.T) {
	n := New(Config{ShowDescriptors: true, ThresholdMs: 1})
	input := "Hello " + string(placeholderFirst) + " world"
	if got := n.Normalize(input); got != "Hello world" {
		t.Fatalf("expected private-use rune to be dropped, got %q", got)
	}
}

func TestNormalizeAppliesNFC(t *testing.T) {
	n := New(DefaultConfig())
	decomposed := "Cafe\u0301"
	if got := n.Normalize(decomposed); got != "Caf\u00e9" {
		t.Fatalf("expected composed form, got %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"speakHello world",
		"helloBreak there 4break",
		"Hello [pause 400ms] world",
		"Hello [pause 900ms] . world",
		"Wait time400ms then go rate",
		`<speak rate="x-slow">Hello <break time="1s"/> world</speak>`,
		"version2update 5msHello 1990s",
		"phonemes prosody say-as interpret-as",
		"Take a break and check the rate",
		"sampled at 44kHz and 20 hz",
		"helloWorld iPhone McDonald",
		`He said "don't" (twice) * / =`,
		"time = \"400ms\" level5 Speak",
		"Hello  [long silence]  world",
		"speakhello world hellobreak It is time.",
		"",
	}
	configs := []Config{
		DefaultConfig(),
		{ShowDescriptors: true, ThresholdMs: 300},
		{ThresholdMs: DefaultThresholdMs, KeepProseKeywords: true},
	}
	for _, cfg := range configs {
		n := New(cfg)
		for _, input := range inputs {
			once := n.Normalize(input)
			twice := n.Normalize(once)
			if once != twice {
				t.Fatalf("not idempotent for %q (cfg %+v): %q then %q", input, cfg, once, twice)
			}
		}
	}
}

func TestNormalizeManyPauses(t *testing.T) {
	n := New(Config{ShowDescriptors: true, ThresholdMs: 800})
	input := strings.Repeat("word [pause 1s] ", 50)
	got := n.Normalize(input)
	if strings.Count(got, LongSilence) != 50 {
		t.Fatalf("expected 50 descriptors, got %d in %q", strings.Count(got, LongSilence), got)
	}
	if strings.ContainsFunc(got, isPlaceholder) {
		t.Fatal("expected no placeholder runes in output")
	}
}

func TestParseDurationMs(t *testing.T) {
	tests := []struct {
		input string
		ms    int64
		ok    bool
	}{
		{input: "400ms", ms: 400, ok: true},
		{input: "1.5s", ms: 1500, ok: true},
		{input: " 250 ", ms: 250, ok: true},
		{input: "2 S", ms: 2000, ok: true},
		{input: "strong", ok: false},
		{input: "", ok: false},
	}
	for _, tc := range tests {
		ms, ok := parseDurationMs(tc.input)
		if ok != tc.ok || ms != tc.ms {
			t.Fatalf("parseDurationMs(%q) = %d, %v; want %d, %v", tc.input, ms, ok, tc.ms, tc.ok)
		}
	}
}
