package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"cuekit/internal/captions"
	"cuekit/internal/config"
	"cuekit/internal/logging"
	"cuekit/internal/markup"
	"cuekit/internal/normalize"
	"cuekit/internal/plaintext"
	"cuekit/internal/services"
	"cuekit/internal/trackstore"
)

const component = "pipeline"

// Option configures the service.
type Option func(*Service)

// WithTrackStore serves caption parses from store.
func WithTrackStore(store *trackstore.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRequestIDs overrides request ID generation (primarily for tests).
func WithRequestIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}

// Service runs the markup and caption operations. It is safe for concurrent
// use.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor *plaintext.Extractor
	parser    *captions.Parser
	store     *trackstore.Store
	newID     func() string
}

// New builds a service from cfg. A nil cfg uses defaults; a nil logger
// discards output.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	extractor := plaintext.New(normalize.New(cfg.NormalizeConfig()))
	svc := &Service{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, component),
		extractor: extractor,
		parser:    captions.NewParser(extractor),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// Prepared is markup that passed validation together with its plain text.
type Prepared struct {
	RequestID string `json:"request_id"`
	Markup    string `json:"markup"`
	RootAdded bool   `json:"root_added"`
	PlainText string `json:"plain_text"`
	Strategy  string `json:"strategy"`
}

// Prepare validates input and extracts its plain text. Validation failures
// are marked with services.ErrValidation and still unwrap to
// *markup.ValidationError.
func (s *Service) Prepare(ctx context.Context, input string) (Prepared, error) {
	ctx, logger := s.begin(ctx, "prepare")

	validated, err := markup.Validate(input)
	if err != nil {
		kind := "invalid"
		var verr *markup.ValidationError
		if errors.As(err, &verr) {
			kind = verr.Kind.String()
		}
		logger.Info("markup rejected", logging.String("kind", kind), logging.Error(err))
		return Prepared{}, services.Wrap(services.ErrValidation, component, "prepare", kind, err)
	}

	prepared := Prepared{
		RequestID: requestID(ctx),
		Markup:    validated.Wrapped,
		RootAdded: validated.RootAdded,
		PlainText: s.extractor.ToPlainText(validated.Wrapped),
		Strategy:  s.extractor.Strategy(validated.Wrapped),
	}
	logger.Debug("markup prepared",
		logging.Bool("root_added", prepared.RootAdded),
		logging.String(logging.FieldStrategy, prepared.Strategy),
		logging.Int("chars", len([]rune(prepared.PlainText))),
	)
	return prepared, nil
}

// PlainText extracts displayable text from input without validating it.
// It returns the text and the extraction strategy used.
func (s *Service) PlainText(input string) (string, string) {
	return s.extractor.ToPlainText(input), s.extractor.Strategy(input)
}

// WordTimings approximates per-word timing for cue.
func (s *Service) WordTimings(cue captions.Cue) []captions.WordTiming {
	return captions.WordTimings(cue)
}

func (s *Service) begin(ctx context.Context, operation string) (context.Context, *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, s.newID())
	}
	ctx = services.WithOperation(ctx, operation)
	return ctx, logging.WithContext(ctx, s.logger)
}

func requestID(ctx context.Context) string {
	id, _ := services.RequestIDFromContext(ctx)
	return id
}
