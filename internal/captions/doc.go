// Package captions parses SubRip and WebVTT caption tracks into cues,
// renders cues back into either format, and approximates per-word timing
// inside a cue.
//
// Parsing is tolerant: a cue with a missing or unparsable timestamp, or one
// that ends before it starts, is skipped and reported in ParseResult.Skipped
// while the rest of the file is still read. Cue text is passed through a
// TextCleaner (normally a plaintext.Extractor) before it is stored.
//
// Word timing is a linear approximation: the cue duration is divided evenly
// between its whitespace-separated words.
package captions
