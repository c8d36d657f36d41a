// Package markup validates and models the SSML-like markup accepted for
// speech synthesis.
//
// Validate applies the fail-fast acceptance rules (size ceiling, forbidden
// audio elements, external references, XML well-formedness and the element
// whitelist) and wraps bare fragments in a speak root. Parse builds a small
// document tree whose nodes are either Text leaves or Elements, so walkers can
// switch over exactly two node kinds.
//
// Validation is advisory sanitization in front of the synthesizer, not a
// security boundary: the decoder is encoding/xml and inherits its quirks
// (custom entities are never expanded, DOCTYPE declarations are tokenized but
// ignored, undeclared namespace prefixes are kept verbatim).
package markup
