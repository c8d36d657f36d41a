package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputChars is the ceiling on accepted markup, counted in characters.
const MaxInputChars = 32 * 1024

// ErrorKind classifies validation failures.
type ErrorKind int

const (
	KindEmpty ErrorKind = iota + 1
	KindTooLong
	KindForbiddenElement
	KindExternalReference
	KindMalformedXML
	KindDisallowedElement
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTooLong:
		return "too_long"
	case KindForbiddenElement:
		return "forbidden_element"
	case KindExternalReference:
		return "external_reference"
	case KindMalformedXML:
		return "malformed_xml"
	case KindDisallowedElement:
		return "disallowed_element"
	default:
		return "unknown"
	}
}

var (
	ErrEmpty             = errors.New("markup is empty")
	ErrTooLong           = errors.New("markup exceeds size limit")
	ErrForbiddenElement  = errors.New("markup contains a forbidden element")
	ErrExternalReference = errors.New("markup references an external resource")
	ErrMalformedXML      = errors.New("markup is not well-formed XML")
	ErrDisallowedElement = errors.New("markup contains a disallowed element")
)

// ValidationError describes why markup was rejected.
type ValidationError struct {
	Kind ErrorKind
	// Element names the offending tag for KindDisallowedElement.
	Element string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap exposes the sentinel for the error kind so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindEmpty:
		return ErrEmpty
	case KindTooLong:
		return ErrTooLong
	case KindForbiddenElement:
		return ErrForbiddenElement
	case KindExternalReference:
		return ErrExternalReference
	case KindMalformedXML:
		return ErrMalformedXML
	case KindDisallowedElement:
		return ErrDisallowedElement
	default:
		return nil
	}
}

// Validated is accepted markup, trimmed and guaranteed to have a speak root.
type Validated struct {
	Wrapped string
	// RootAdded is true when the input lacked a speak root and was wrapped.
	RootAdded bool
}

var allowedElements = map[string]struct{}{
	"speak":    {},
	"voice":    {},
	"prosody":  {},
	"break":    {},
	"emphasis": {},
	"say-as":   {},
	"phoneme":  {},
	"sub":      {},
	"p":        {},
	"s":        {},
	"w":        {},
	"lex":      {},
}

// AllowedElement reports whether name is on the element whitelist.
func AllowedElement(name string) bool {
	_, ok := allowedElements[strings.ToLower(name)]
	return ok
}

var (
	audioElementPattern  = regexp.MustCompile(`(?i)<\s*audio\b`)
	externalRefPattern   = regexp.MustCompile(`(?i)<[^<>]*?\s(src|audio|href)\s*=\s*["']\s*([a-z][a-z0-9+.\-]*:|//)`)
	externalURIPattern   = regexp.MustCompile(`(?i)^\s*([a-z][a-z0-9+.\-]*:|//)`)
	xmlDeclarationPrefix = regexp.MustCompile(`^<\?xml\b[^>]*\?>\s*`)
)

// Validate checks input against the acceptance rules in order and returns the
// first failure. Accepted markup is trimmed and wrapped in <speak> when its
// root element is anything else.
func Validate(input string) (Validated, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Validated{}, &ValidationError{Kind: KindEmpty, Message: "markup must not be empty"}
	}
	if count := utf8.RuneCountInString(input); count > MaxInputChars {
		return Validated{}, &ValidationError{
			Kind:    KindTooLong,
			Message: fmt.Sprintf("markup is %d characters; the limit is %d", count, MaxInputChars),
		}
	}
	if audioElementPattern.MatchString(input) {
		return Validated{}, &ValidationError{Kind: KindForbiddenElement, Message: "audio elements are not allowed"}
	}
	if attr, ok := externalReference(input); ok {
		return Validated{}, &ValidationError{
			Kind:    KindExternalReference,
			Message: fmt.Sprintf("%s attribute must not reference an external URI", attr),
		}
	}
	if err := checkWellFormed(trimmed); err != nil {
		return Validated{}, &ValidationError{
			Kind:    KindMalformedXML,
			Message: fmt.Sprintf("markup is not well-formed XML: %v", err),
		}
	}
	if name, ok := firstDisallowedElement(trimmed); ok {
		return Validated{}, &ValidationError{
			Kind:    KindDisallowedElement,
			Element: name,
			Message: fmt.Sprintf("element <%s> is not allowed", name),
		}
	}
	if hasSpeakRoot(trimmed) {
		return Validated{Wrapped: trimmed}, nil
	}
	return Validated{Wrapped: wrapSpeak(trimmed), RootAdded: true}, nil
}

// externalReference returns the first src, audio or href attribute holding an
// absolute or scheme-relative URI. Raw tags are matched first; attribute
// values are then decoded leniently so character references cannot hide a
// scheme from the raw match. Text content is never inspected.
func externalReference(input string) (string, bool) {
	if match := externalRefPattern.FindStringSubmatch(input); match != nil {
		return strings.ToLower(match[1]), true
	}
	decoder := xml.NewDecoder(strings.NewReader(input))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			name := strings.ToLower(attr.Name.Local)
			if name != "src" && name != "audio" && name != "href" {
				continue
			}
			if externalURIPattern.MatchString(attr.Value) {
				return name, true
			}
		}
	}
}

func firstDisallowedElement(input string) (string, bool) {
	decoder := xml.NewDecoder(strings.NewReader(input))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := elementName(start.Name)
		if _, allowed := allowedElements[name]; !allowed {
			return name, true
		}
	}
}

// hasSpeakRoot reports whether the only top-level element is speak and there
// is no top-level text around it.
func hasSpeakRoot(input string) bool {
	decoder := xml.NewDecoder(strings.NewReader(input))
	depth := 0
	roots := 0
	rootIsSpeak := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				rootIsSpeak = elementName(t.Name) == "speak"
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				return false
			}
		}
	}
	return roots == 1 && rootIsSpeak
}

func wrapSpeak(input string) string {
	if decl := xmlDeclarationPrefix.FindString(input); decl != "" {
		return strings.TrimSpace(decl) + "<speak>" + input[len(decl):] + "</speak>"
	}
	return "<speak>" + input + "</speak>"
}
