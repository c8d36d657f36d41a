package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"cuekit/internal/captions"
	"cuekit/internal/logging"
	"cuekit/internal/services"
	"cuekit/internal/trackstore"
)

// Track is a parsed caption track.
type Track struct {
	RequestID string                `json:"request_id"`
	Format    captions.Format       `json:"format"`
	Cues      []captions.Cue        `json:"cues"`
	Skipped   []captions.SkippedCue `json:"skipped,omitempty"`
	Cached    bool                  `json:"cached"`
}

// Text joins the cue texts with spaces.
func (t Track) Text() string {
	parts := make([]string, 0, len(t.Cues))
	for _, cue := range t.Cues {
		if cue.Text != "" {
			parts = append(parts, cue.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Captions parses content in format. With a track store configured, repeat
// parses of the same content are served from the cache; cache failures are
// logged and never fail the parse.
func (s *Service) Captions(ctx context.Context, content string, format captions.Format) (Track, error) {
	ctx, logger := s.begin(ctx, "captions")
	if format == "" {
		format = captions.DetectFormat(content)
	}
	format, err := captions.ParseFormat(string(format))
	if err != nil {
		return Track{}, services.Wrap(services.ErrValidation, component, "captions", "format", err)
	}
	logger = logger.With(logging.String(logging.FieldFormat, string(format)))

	var key string
	if s.store != nil {
		key = trackstore.Key(format, s.cfg.NormalizeConfig(), content)
		cached, ok, err := s.store.Get(ctx, key)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "track cache read failed", "track_cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run 'cuekit cache clear' if the cache is corrupt"),
				logging.String(logging.FieldImpact, "track parsed without cache"),
			)
		case ok:
			logger.Debug("track cache hit", logging.Int(logging.FieldCueCount, len(cached.Cues)))
			return Track{RequestID: requestID(ctx), Format: format, Cues: cached.Cues, Skipped: cached.Skipped, Cached: true}, nil
		}
	}

	result, err := s.parser.ParseDetailed(content, format)
	if err != nil {
		return Track{}, services.Wrap(services.ErrValidation, component, "captions", "parse", err)
	}
	s.reportSkipped(logger, result.Skipped)

	if s.store != nil {
		if err := s.cacheTrack(ctx, key, format, result); err != nil {
			logging.WarnWithContext(logger, "track cache write failed", "track_cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
				logging.String(logging.FieldImpact, "next parse of this track will not be cached"),
			)
		}
	}

	logger.Debug("track parsed",
		logging.Int(logging.FieldCueCount, len(result.Cues)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return Track{RequestID: requestID(ctx), Format: format, Cues: result.Cues, Skipped: result.Skipped}, nil
}

func (s *Service) cacheTrack(ctx context.Context, key string, format captions.Format, result captions.ParseResult) error {
	if err := s.store.Put(ctx, key, format, result); err != nil {
		return err
	}
	_, err := s.store.Prune(ctx, s.cfg.Cache.MaxEntries)
	return err
}

func (s *Service) reportSkipped(logger *slog.Logger, skipped []captions.SkippedCue) {
	if len(skipped) == 0 {
		return
	}
	for _, skip := range skipped {
		logger.Debug("cue skipped", logging.Int("line", skip.Line), logging.String("reason", skip.Reason))
	}
	logging.WarnWithContext(logger, "caption cues skipped", "caption_cues_skipped",
		logging.Int("skipped", len(skipped)),
		logging.Int("first_line", skipped[0].Line),
		logging.String("first_reason", skipped[0].Reason),
		logging.String(logging.FieldErrorHint, "fix the timing lines of the listed cues"),
		logging.String(logging.FieldImpact, "skipped cues are missing from the output"),
	)
}
