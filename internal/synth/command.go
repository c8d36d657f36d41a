package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cuekit/internal/captions"
	"cuekit/internal/config"
	"cuekit/internal/services"
)

// AudioPlaceholder in a configured argument is replaced with Request.AudioPath.
const AudioPlaceholder = "{audio}"

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin io.Reader) ([]byte, error)
}

// Option configures the command synthesizer.
type Option func(*Command)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Command) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Command runs an external synthesizer program.
type Command struct {
	binary  string
	args    []string
	timeout time.Duration
	format  captions.Format
	limiter *rate.Limiter
	exec    Executor
}

// NewCommand builds a synthesizer from configuration. It fails when no command
// is configured.
func NewCommand(cfg config.Synth, opts ...Option) (*Command, error) {
	binary := strings.TrimSpace(cfg.Command)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "synth", "init", "synth.command is not set", nil)
	}
	format, err := captions.ParseFormat(cfg.CaptionFormat)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "synth", "init", "synth.caption_format", err)
	}
	cmd := &Command{
		binary:  binary,
		args:    append([]string(nil), cfg.Args...),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		format:  format,
		exec:    commandExecutor{},
	}
	if cfg.RequestsPerMinute > 0 {
		cmd.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	for _, opt := range opts {
		opt(cmd)
	}
	return cmd, nil
}

// Binary returns the configured program.
func (c *Command) Binary() string { return c.binary }

// Synthesize pipes req.Markup to the program and reads the caption track from
// its stdout. A request without a format uses the configured one. Calls wait
// for the configured rate limit.
func (c *Command) Synthesize(ctx context.Context, req Request) (Output, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Output{}, fmt.Errorf("synth rate limit: %w", err)
		}
	}
	format := req.Format
	if format == "" {
		format = c.format
	}
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = strings.ReplaceAll(arg, AudioPlaceholder, req.AudioPath)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stdout, err := c.exec.Run(runCtx, c.binary, args, strings.NewReader(req.Markup))
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return Output{}, services.Wrap(services.ErrTimeout, "synth", "run", fmt.Sprintf("%s exceeded %s", c.binary, c.timeout), err)
		}
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		return Output{}, services.Wrap(services.ErrExternalTool, "synth", "run", c.binary, err)
	}
	return Output{Captions: string(stdout), Format: format, AudioPath: req.AudioPath}, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("%w: %s", err, lastLine(detail))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func lastLine(text string) string {
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
