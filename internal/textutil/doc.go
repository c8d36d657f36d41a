// Package textutil provides token fingerprints and cosine similarity for
// comparing two renditions of the same utterance.
//
// Tokenization lowercases text, splits on anything that is not a letter or
// digit, and drops single-rune tokens. The pipeline uses Agreement to check
// that captions returned by a synthesizer still say what the markup asked for.
package textutil
