// Package plaintext turns speech markup, or a caption file whose cue text may
// contain markup, into displayable text.
//
// Utterances are handled by one of two strategies chosen up front: the xml
// strategy walks the parsed document tree when the input is well-formed, and
// the heuristic strategy strips tags with regular expressions when it is not.
// Either way the result goes through the normalize package, so extraction
// never fails. Input that looks like a caption file keeps its index and
// timing lines verbatim and only the cue text is cleaned.
package plaintext
