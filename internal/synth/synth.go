package synth

import (
	"context"

	"cuekit/internal/captions"
)

// Request asks a synthesizer to speak markup. Markup must already be
// validated and carry a speak root.
type Request struct {
	Markup    string
	AudioPath string
	Format    captions.Format
}

// Output is the caption track a synthesizer produced for a Request.
type Output struct {
	Captions  string
	Format    captions.Format
	AudioPath string
}

// Synthesizer speaks markup and reports caption timing.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Output, error)
}
