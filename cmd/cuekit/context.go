package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cuekit/internal/config"
	"cuekit/internal/logging"
	"cuekit/internal/pipeline"
	"cuekit/internal/trackstore"
)

type globalFlags struct {
	config   string
	envFile  string
	logLevel string
	output   string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	store *trackstore.Store
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		envFiles := []string{}
		if path := strings.TrimSpace(c.flags.envFile); path != "" {
			envFiles = append(envFiles, path)
		}
		if err := config.LoadDotEnv(envFiles...); err != nil {
			c.configErr = err
			return
		}
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// loggerFor builds the process logger once. Console output goes to the
// command's stderr so stdout stays clean for results.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	})
	return c.logger, c.loggerErr
}

// service builds a pipeline service. With the cache enabled the track store
// is opened; a store that cannot be opened is logged and skipped.
func (c *commandContext) service(cmd *cobra.Command) (*pipeline.Service, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return nil, nil, err
	}
	var opts []pipeline.Option
	if cfg.Cache.Enabled {
		if c.store == nil {
			store, err := trackstore.Open(cfg.TrackStorePath())
			if err != nil {
				logging.WarnWithContext(logger, "track cache unavailable", "track_cache_unavailable",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "run 'cuekit doctor' to inspect the cache"),
					logging.String(logging.FieldImpact, "captions are parsed without the cache"),
				)
			} else {
				c.store = store
			}
		}
		if c.store != nil {
			opts = append(opts, pipeline.WithTrackStore(c.store))
		}
	}
	return pipeline.New(cfg, logger, opts...), logger, nil
}

func (c *commandContext) openStore() (*trackstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		return c.store, nil
	}
	store, err := trackstore.Open(cfg.TrackStorePath())
	if err != nil {
		return nil, fmt.Errorf("open track cache: %w", err)
	}
	c.store = store
	return store, nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *commandContext) outputFormat() string {
	return strings.ToLower(strings.TrimSpace(c.flags.output))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
