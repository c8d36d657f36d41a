package markup

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ErrorKind
		sentinel error
	}{
		{name: "empty", input: "", kind: KindEmpty, sentinel: ErrEmpty},
		{name: "whitespace", input: "   \n\t", kind: KindEmpty, sentinel: ErrEmpty},
		{name: "too long", input: strings.Repeat("a", MaxInputChars+1), kind: KindTooLong, sentinel: ErrTooLong},
		{name: "audio element", input: `<speak><audio src="http://x"/></speak>`, kind: KindForbiddenElement, sentinel: ErrForbiddenElement},
		{name: "audio uppercase open", input: `<speak><AUDIO>x</AUDIO></speak>`, kind: KindForbiddenElement, sentinel: ErrForbiddenElement},
		{name: "external href", input: `<speak><sub alias="x" href="https://example.com/a">x</sub></speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "scheme relative src", input: `<speak><p src='//cdn.example.com/x'>hi</p></speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "character reference scheme", input: `<speak><voice src="&#104;ttp://evil.example/x.mp3">hi</voice></speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "character reference scheme relative", input: `<speak><sub alias="x" href="&#x2F;/evil.example/x">x</sub></speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "prefixed href", input: `<speak><sub alias="x" xlink:href="https://example.com/a">x</sub></speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "external before malformed", input: `<speak><p src="&#104;ttp://x">unclosed</speak>`, kind: KindExternalReference, sentinel: ErrExternalReference},
		{name: "unclosed", input: `<speak><p>unclosed</speak>`, kind: KindMalformedXML, sentinel: ErrMalformedXML},
		{name: "stray end tag", input: `hello</p>`, kind: KindMalformedXML, sentinel: ErrMalformedXML},
		{name: "bad entity", input: `<speak>fish &chips</speak>`, kind: KindMalformedXML, sentinel: ErrMalformedXML},
		{name: "unknown element", input: `<speak><unknown/></speak>`, kind: KindDisallowedElement, sentinel: ErrDisallowedElement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.input)
			if err == nil {
				t.Fatalf("expected %s error", tc.kind)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, verr.Kind, err)
			}
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected errors.Is(%v)", tc.sentinel)
			}
			if verr.Message == "" {
				t.Fatal("expected a human readable message")
			}
		})
	}
}

func TestValidateNamesFirstDisallowedElement(t *testing.T) {
	_, err := Validate(`<speak><p>ok</p><unknown/><other/></speak>`)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Element != "unknown" {
		t.Fatalf("expected offender %q, got %q", "unknown", verr.Element)
	}

	_, err = Validate(`<speak><amazon:effect name="whispered">hi</amazon:effect></speak>`)
	if !errors.As(err, &verr) || verr.Element != "amazon:effect" {
		t.Fatalf("expected prefixed offender, got %v", err)
	}
}

func TestValidateAcceptsLimitLength(t *testing.T) {
	result, err := Validate(strings.Repeat("a", MaxInputChars))
	if err != nil {
		t.Fatalf("expected input at the limit to pass: %v", err)
	}
	if !result.RootAdded {
		t.Fatal("expected bare text to be wrapped")
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	if _, err := Validate(strings.Repeat("é", MaxInputChars)); err != nil {
		t.Fatalf("expected multi-byte input at the character limit to pass: %v", err)
	}
}

func TestValidateWrapsFragments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wrapped bool
	}{
		{
			name:  "speak root kept",
			input: "  <speak>Hello <break time=\"400ms\"/> world</speak>\n",
			want:  `<speak>Hello <break time="400ms"/> world</speak>`,
		},
		{
			name:  "uppercase root kept",
			input: `<SPEAK><Break time="1s"/></SPEAK>`,
			want:  `<SPEAK><Break time="1s"/></SPEAK>`,
		},
		{
			name:    "plain text",
			input:   "Hello world",
			want:    "<speak>Hello world</speak>",
			wrapped: true,
		},
		{
			name:    "non speak root",
			input:   "<p>Hello <emphasis>there</emphasis></p>",
			want:    "<speak><p>Hello <emphasis>there</emphasis></p></speak>",
			wrapped: true,
		},
		{
			name:    "two roots",
			input:   "<speak>a</speak><speak>b</speak>",
			want:    "<speak><speak>a</speak><speak>b</speak></speak>",
			wrapped: true,
		},
		{
			name:    "text around speak",
			input:   "intro <speak>a</speak>",
			want:    "<speak>intro <speak>a</speak></speak>",
			wrapped: true,
		},
		{
			name:    "declaration stays first",
			input:   `<?xml version="1.0"?> <p>hi</p>`,
			want:    `<?xml version="1.0"?><speak><p>hi</p></speak>`,
			wrapped: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Validate(tc.input)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if result.Wrapped != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, result.Wrapped)
			}
			if result.RootAdded != tc.wrapped {
				t.Fatalf("expected RootAdded=%v", tc.wrapped)
			}
		})
	}
}

func TestValidatedOutputHasSpeakRoot(t *testing.T) {
	inputs := []string{
		"plain words",
		`<voice name="a"><prosody rate="slow">x</prosody></voice>`,
		`<p><s>one</s><s>two</s></p><p>three</p>`,
		`<say-as interpret-as="digits">123</say-as>`,
		`<phoneme alphabet="ipa" ph="t">tomato</phoneme> and <w>word</w> <lex>x</lex>`,
		`<sub alias="World Wide Web">WWW</sub>`,
		`<speak>already</speak>`,
	}
	for _, input := range inputs {
		result, err := Validate(input)
		if err != nil {
			t.Fatalf("Validate(%q) returned error: %v", input, err)
		}
		doc, err := Parse(result.Wrapped)
		if err != nil {
			t.Fatalf("wrapped output does not parse: %v", err)
		}
		root := doc.Root()
		if root == nil || root.Name != "speak" {
			t.Fatalf("expected speak root for %q, got %+v", input, root)
		}
	}
}

func TestValidateAllowsRelativeReferences(t *testing.T) {
	if _, err := Validate(`<speak><sub alias="x" href="notes/local">x</sub></speak>`); err != nil {
		t.Fatalf("expected relative reference to pass: %v", err)
	}
}

func TestValidateIgnoresReferencesInText(t *testing.T) {
	for _, input := range []string{
		`<speak>set href='x:y' here</speak>`,
		`<speak>the src="http://example.com" attribute</speak>`,
	} {
		if _, err := Validate(input); err != nil {
			t.Fatalf("expected text that mentions an attribute to pass, Validate(%q) = %v", input, err)
		}
	}
}

// The decoder never expands entities declared in an internal DOCTYPE subset,
// so such documents are rejected as malformed rather than silently expanded.
func TestValidateDoctypeEntityIsNotExpanded(t *testing.T) {
	input := `<!DOCTYPE speak [<!ENTITY who "world">]><speak>Hello &who;</speak>`
	_, err := Validate(input)
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatalf("expected malformed XML for custom entity, got %v", err)
	}
}

// A DOCTYPE without entity references is tokenized and ignored.
func TestValidateDoctypeWithoutEntitiesPasses(t *testing.T) {
	result, err := Validate(`<!DOCTYPE speak><speak>Hello</speak>`)
	if err != nil {
		t.Fatalf("expected DOCTYPE document to pass: %v", err)
	}
	if result.RootAdded {
		t.Fatal("expected speak root to be recognised after DOCTYPE")
	}
}

func TestErrorKindString(t *testing.T) {
	if KindDisallowedElement.String() != "disallowed_element" {
		t.Fatalf("unexpected kind name %q", KindDisallowedElement.String())
	}
	if ErrorKind(99).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range kind")
	}
}
