package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is a markup tree node: either Text or *Element.
type Node interface {
	markupNode()
}

// Text is a character-data leaf.
type Text string

func (Text) markupNode() {}

// Attr is a single attribute. Name is lower-cased; Value is kept verbatim.
type Attr struct {
	Name  string
	Value string
}

// Element is a markup element with a lower-cased tag name.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Element) markupNode() {}

// Attr returns the value of the named attribute. Name matching is
// case-insensitive.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, attr := range e.Attrs {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// Document is a parsed markup fragment. Nodes holds the top-level nodes in
// document order; a well-formed speak document has exactly one Element.
type Document struct {
	Nodes []Node
}

// Root returns the single top-level element, ignoring whitespace-only text.
// It returns nil when the document has top-level text or several elements.
func (d *Document) Root() *Element {
	if d == nil {
		return nil
	}
	var root *Element
	for _, node := range d.Nodes {
		switch n := node.(type) {
		case Text:
			if strings.TrimSpace(string(n)) != "" {
				return nil
			}
		case *Element:
			if root != nil {
				return nil
			}
			root = n
		}
	}
	return root
}

// Parse decodes markup into a Document. Fragments without a single root are
// accepted; only well-formedness is enforced.
func Parse(input string) (*Document, error) {
	decoder := xml.NewDecoder(strings.NewReader(input))
	doc := &Document{}
	var stack []*Element

	appendNode := func(node Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, node)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode markup: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: elementName(t.Name)}
			for _, attr := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: strings.ToLower(attrName(attr.Name)), Value: attr.Value})
			}
			appendNode(el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(t) > 0 {
				appendNode(Text(string(t)))
			}
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("decode markup: element <%s> not closed", stack[len(stack)-1].Name)
	}
	return doc, nil
}

// WellFormed reports whether input decodes as XML without error.
func WellFormed(input string) bool {
	return checkWellFormed(input) == nil
}

func checkWellFormed(input string) error {
	decoder := xml.NewDecoder(strings.NewReader(input))
	depth := 0
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if depth != 0 {
		return errors.New("unexpected end of input: unclosed element")
	}
	return nil
}

// elementName lower-cases the local name and keeps an undeclared namespace
// prefix. Declared namespaces resolve to URIs and are dropped.
func elementName(name xml.Name) string {
	local := strings.ToLower(name.Local)
	if name.Space == "" || strings.ContainsAny(name.Space, "/:") {
		return local
	}
	return strings.ToLower(name.Space) + ":" + local
}

func attrName(name xml.Name) string {
	if name.Space == "" || strings.ContainsAny(name.Space, "/:") {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
