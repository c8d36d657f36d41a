package mcpserver

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"cuekit/internal/config"
	"cuekit/internal/logging"
	"cuekit/internal/pipeline"
	"cuekit/internal/synth"
)

// Server wires pipeline operations to MCP tools.
type Server struct {
	cfg         *config.Config
	svc         *pipeline.Service
	synthesizer synth.Synthesizer
	logger      *slog.Logger
	mcpServer   *sdk.Server
}

// Option configures the server.
type Option func(*Server)

// WithSynthesizer enables the speak tool.
func WithSynthesizer(s synth.Synthesizer) Option {
	return func(srv *Server) {
		srv.synthesizer = s
	}
}

// New builds a server over svc. The speak tool is only registered when a
// synthesizer is supplied.
func New(cfg *config.Config, svc *pipeline.Service, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdk.NewServer(&sdk.Implementation{
		Name:    cfg.MCP.ServerName,
		Version: cfg.MCP.ServerVersion,
	}, nil)
	s.registerTools()
	return s
}

// Run serves requests on stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting",
		logging.String("name", s.cfg.MCP.ServerName),
		logging.Bool("speak", s.synthesizer != nil),
	)
	return s.mcpServer.Run(ctx, &sdk.StdioTransport{})
}

// MCP returns the underlying SDK server, for alternate transports.
func (s *Server) MCP() *sdk.Server { return s.mcpServer }

func (s *Server) registerTools() {
	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "validate_markup",
		Description: "Validate SSML markup and return it wrapped in a speak root when needed",
	}, s.handleValidateMarkup)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "plain_text",
		Description: "Extract displayable plain text from SSML, a fragment, or a caption file",
	}, s.handlePlainText)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "parse_captions",
		Description: "Parse an SRT or WebVTT caption track into cues with cleaned text",
	}, s.handleParseCaptions)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "word_timings",
		Description: "Approximate per-word timings by splitting each cue evenly across its words",
	}, s.handleWordTimings)

	if s.synthesizer != nil {
		sdk.AddTool(s.mcpServer, &sdk.Tool{
			Name:        "speak",
			Description: "Synthesize SSML with the configured speech command and return its caption track",
		}, s.handleSpeak)
	}
}
