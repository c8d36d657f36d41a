package pipeline

import (
	"context"
	"errors"

	"cuekit/internal/captions"
	"cuekit/internal/logging"
	"cuekit/internal/services"
	"cuekit/internal/synth"
	"cuekit/internal/textutil"
)

// ErrNoCues is returned when a synthesizer's caption track holds no usable cue.
var ErrNoCues = errors.New("caption track has no cues")

// SpeakRequest asks for markup to be spoken by a synthesizer.
type SpeakRequest struct {
	Markup    string
	AudioPath string
	Format    captions.Format
}

// Spoken is the outcome of a Speak call.
type Spoken struct {
	Prepared  Prepared                `json:"prepared"`
	AudioPath string                  `json:"audio_path,omitempty"`
	Track     Track                   `json:"track"`
	Words     [][]captions.WordTiming `json:"words"`
	// Agreement is the text similarity between the plain text of the markup
	// and the returned captions, from 0 to 1.
	Agreement float64 `json:"agreement"`
	Diverged  bool    `json:"diverged"`
}

// Speak validates markup, hands it to synthesizer, and parses the caption
// track it returns.
func (s *Service) Speak(ctx context.Context, synthesizer synth.Synthesizer, req SpeakRequest) (Spoken, error) {
	if synthesizer == nil {
		return Spoken{}, services.Wrap(services.ErrConfiguration, component, "speak", "no synthesizer configured", nil)
	}
	ctx, logger := s.begin(ctx, "speak")

	prepared, err := s.Prepare(ctx, req.Markup)
	if err != nil {
		return Spoken{}, err
	}
	if req.Format != "" {
		format, err := captions.ParseFormat(string(req.Format))
		if err != nil {
			return Spoken{}, services.Wrap(services.ErrValidation, component, "speak", "format", err)
		}
		req.Format = format
	}

	out, err := synthesizer.Synthesize(ctx, synth.Request{
		Markup:    prepared.Markup,
		AudioPath: req.AudioPath,
		Format:    req.Format,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Spoken{}, ctx.Err()
		}
		if services.FailureKind(err) == "transient" {
			err = services.Wrap(services.ErrExternalTool, component, "speak", "synthesize", err)
		}
		logging.ErrorWithContext(logger, "synthesis failed", "synthesis_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check synth.command and its arguments"),
		)
		return Spoken{}, err
	}

	format := out.Format
	if format == "" {
		format = captions.DetectFormat(out.Captions)
	}
	track, err := s.Captions(ctx, out.Captions, format)
	if err != nil {
		return Spoken{}, services.Wrap(services.ErrExternalTool, component, "speak", "synthesizer returned an unreadable caption track", err)
	}
	if len(track.Cues) == 0 {
		return Spoken{}, services.Wrap(services.ErrExternalTool, component, "speak", "synthesize", ErrNoCues)
	}

	words := make([][]captions.WordTiming, len(track.Cues))
	for i, cue := range track.Cues {
		words[i] = s.WordTimings(cue)
	}

	agreement := textutil.Agreement(prepared.PlainText, track.Text())
	spoken := Spoken{
		Prepared:  prepared,
		AudioPath: out.AudioPath,
		Track:     track,
		Words:     words,
		Agreement: agreement,
		Diverged:  agreement < s.cfg.Synth.MinAgreement,
	}
	if spoken.Diverged {
		logging.WarnWithContext(logger, "captions diverge from markup", "caption_divergence",
			logging.Float64("agreement", agreement),
			logging.Float64("min_agreement", s.cfg.Synth.MinAgreement),
			logging.String(logging.FieldErrorHint, "compare the synthesizer captions with the plain text"),
			logging.String(logging.FieldImpact, "word timings may not match the requested text"),
		)
	}
	logger.Info("markup spoken",
		logging.Int(logging.FieldCueCount, len(track.Cues)),
		logging.Float64("agreement", agreement),
	)
	return spoken, nil
}
