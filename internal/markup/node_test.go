package markup

import "testing"

func TestParseBuildsTree(t *testing.T) {
	doc, err := Parse(`<Speak>Hello<BREAK Time="400ms"/><emphasis level="strong">world</emphasis></Speak>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	root := doc.Root()
	if root == nil || root.Name != "speak" {
		t.Fatalf("expected speak root, got %+v", root)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Children))
	}
	if text, ok := root.Children[0].(Text); !ok || text != "Hello" {
		t.Fatalf("expected leading text node, got %#v", root.Children[0])
	}
	brk, ok := root.Children[1].(*Element)
	if !ok || brk.Name != "break" {
		t.Fatalf("expected break element, got %#v", root.Children[1])
	}
	if value, ok := brk.Attr("TIME"); !ok || value != "400ms" {
		t.Fatalf("expected case-insensitive attribute lookup, got %q %v", value, ok)
	}
	emphasis := root.Children[2].(*Element)
	if value, _ := emphasis.Attr("level"); value != "strong" {
		t.Fatalf("expected attribute value to keep case, got %q", value)
	}
}

func TestParseKeepsAttributeValueCase(t *testing.T) {
	doc, err := Parse(`<speak><voice Name="Joanna">x</voice></speak>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	voice := doc.Root().Children[0].(*Element)
	if value, ok := voice.Attr("name"); !ok || value != "Joanna" {
		t.Fatalf("expected Joanna, got %q", value)
	}
	if _, ok := voice.Attr("gender"); ok {
		t.Fatal("expected missing attribute to report false")
	}
}

func TestParseRejectsUnclosed(t *testing.T) {
	if _, err := Parse(`<speak><p>open`); err == nil {
		t.Fatal("expected error for unclosed elements")
	}
	if WellFormed(`<speak><p>open</speak>`) {
		t.Fatal("expected mis-nested markup to be reported malformed")
	}
}

func TestRootRequiresSingleElement(t *testing.T) {
	tests := []struct {
		input string
		root  bool
	}{
		{input: " <speak>a</speak> ", root: true},
		{input: "<p>a</p><p>b</p>", root: false},
		{input: "text <p>b</p>", root: false},
		{input: "only text", root: false},
	}
	for _, tc := range tests {
		doc, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
		}
		if got := doc.Root() != nil; got != tc.root {
			t.Fatalf("Root() for %q: expected %v", tc.input, tc.root)
		}
	}
	var nilDoc *Document
	if nilDoc.Root() != nil {
		t.Fatal("expected nil document to have no root")
	}
}
