package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePauses(); err != nil {
		return err
	}
	c.normalizeSynth()
	c.normalizeLogging()
	c.normalizeMCP()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizePauses applies the pause environment overrides, which win over the
// file.
func (c *Config) normalizePauses() error {
	if value, ok := os.LookupEnv(envShowPauseDescriptors); ok && strings.TrimSpace(value) != "" {
		show, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", envShowPauseDescriptors, value)
		}
		c.Pauses.ShowDescriptors = show
	}
	if value, ok := os.LookupEnv(envPauseThresholdMs); ok && strings.TrimSpace(value) != "" {
		threshold, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", envPauseThresholdMs, value)
		}
		c.Pauses.DescriptorThresholdMs = threshold
	}
	return nil
}

func (c *Config) normalizeSynth() {
	c.Synth.Command = strings.TrimSpace(c.Synth.Command)
	c.Synth.CaptionFormat = strings.ToLower(strings.TrimSpace(c.Synth.CaptionFormat))
	if c.Synth.CaptionFormat == "" {
		c.Synth.CaptionFormat = defaultSynthCaptionFormat
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeMCP() {
	c.MCP.ServerName = strings.TrimSpace(c.MCP.ServerName)
	if c.MCP.ServerName == "" {
		c.MCP.ServerName = defaultMCPServerName
	}
	c.MCP.ServerVersion = strings.TrimSpace(c.MCP.ServerVersion)
	if c.MCP.ServerVersion == "" {
		c.MCP.ServerVersion = defaultMCPServerVersion
	}
}
