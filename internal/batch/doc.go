// Package batch cleans many caption files concurrently.
//
// Each file is parsed through the pipeline service, optionally stripped of
// advertisement cues and re-rendered. Failures are reported per file so one
// bad track does not stop the rest of the batch.
package batch
