// Package synth defines the boundary to speech synthesizers.
//
// A Synthesizer receives validated SSML and returns a caption track describing
// what was spoken and when. Command adapts any external program that reads SSML
// on stdin and prints SubRip or WebVTT on stdout.
package synth
