// Package normalize repairs caption and transcript text that picked up markup
// artifacts on its way back from synthesis.
//
// Upstream converters occasionally glue attribute or element keywords onto
// prose ("speakHello", "helloBreak", "time400ms") or leak pause annotations
// into the text. Normalizer.Normalize turns pause annotations into
// placeholders, strips glued and stray keywords, separates digits and units
// from words, removes markup punctuation, and then resolves the placeholders
// either to nothing or to a "[long silence]" descriptor depending on
// Config.
//
// Keywords are stripped wherever they touch a word, in either direction and
// regardless of case, and standalone keyword tokens are dropped. Because
// "rate", "level" or "time" are also ordinary English, Config.KeepProseKeywords
// narrows both rules to text that shows other evidence of markup leakage.
// Markup-only keywords (prosody, say-as, interpret-as, phoneme) are always
// removed.
package normalize
